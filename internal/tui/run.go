package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/amirbrooks/doit/internal/board"
	"github.com/amirbrooks/doit/internal/store"
)

// Run shows the board until the user quits or ctx is cancelled. When st is
// set, writes to it from other processes reload the board in place.
func Run(ctx context.Context, b *board.Board, st *store.Dir, log logrus.FieldLogger) error {
	m := New(b, log)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if st != nil {
		wctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			err := st.Watch(wctx, func(key string) {
				p.Send(storeChangedMsg{key: key})
			})
			if err != nil {
				m.log.WithError(err).Warn("store watch stopped")
			}
		}()
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
