package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"gopkg.in/yaml.v3"

	"github.com/amirbrooks/doit/internal/board"
	"github.com/amirbrooks/doit/internal/store"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the supported export formats.
var Formats = []string{"json", "ndjson", "yaml", "csv", "pdf", "telegram"}

// Snapshot is what gets exported: both persisted collections plus the
// visible list as it is grouped on screen.
type Snapshot struct {
	Tasks   []board.Task      `json:"tasks" yaml:"tasks"`
	Filters []board.Filter    `json:"filters" yaml:"filters"`
	Active  []string          `json:"active_filters,omitempty" yaml:"active_filters,omitempty"`
	Groups  []board.DateGroup `json:"groups" yaml:"groups"`
}

// Ext is the file extension used when writing format to disk.
func Ext(format string) string {
	if format == "telegram" {
		return "txt"
	}
	return format
}

type Exporter struct{ b *board.Board }

func NewExporter(b *board.Board) *Exporter { return &Exporter{b: b} }

func (e *Exporter) Snapshot() Snapshot {
	return Snapshot{
		Tasks:   e.b.Tasks(),
		Filters: e.b.Filters(),
		Active:  e.b.ActiveFilters(),
		Groups:  e.b.GroupByDate(),
	}
}

// Export renders the board in the given format. csv, ndjson, pdf and telegram cover
// the visible tasks only; json and yaml carry the full snapshot.
func (e *Exporter) Export(format string) ([]byte, error) {
	snap := e.Snapshot()
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return json.MarshalIndent(snap, "", "  ")
	case "yaml", "yml":
		return yaml.Marshal(&snap)
	case "ndjson":
		var b bytes.Buffer
		for _, g := range snap.Groups {
			for _, t := range g.Tasks {
				line, err := json.Marshal(t)
				if err != nil {
					return nil, err
				}
				b.Write(line)
				b.WriteByte('\n')
			}
		}
		return b.Bytes(), nil
	case "csv":
		var b bytes.Buffer
		w := csv.NewWriter(&b)
		_ = w.Write([]string{"id", "date", "time", "category", "color", "completed", "text"})
		for _, g := range snap.Groups {
			for _, t := range g.Tasks {
				_ = w.Write([]string{strconv.FormatInt(t.ID, 10), t.Date, t.Time, t.Category, t.Color, strconv.FormatBool(t.Completed), t.Text})
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, err
		}
		return b.Bytes(), nil
	case "pdf":
		return renderPDF(snap.Groups)
	case "telegram":
		return []byte(renderTelegram(snap.Groups) + "\n"), nil
	default:
		return nil, fmt.Errorf("%w %s", ErrUnknownFormat, format)
	}
}

func renderPDF(groups []board.DateGroup) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Today main focus")
	pdf.Ln(14)
	if len(groups) == 0 {
		pdf.SetFont("Arial", "I", 11)
		pdf.Cell(40, 8, "(no tasks)")
	}
	for _, g := range groups {
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(40, 8, tr(g.Heading))
		pdf.Ln(9)
		pdf.SetFont("Arial", "", 10)
		for _, t := range g.Tasks {
			if r, gr, bl, ok := board.RGB(t.Color); ok {
				pdf.SetFillColor(r, gr, bl)
			} else {
				pdf.SetFillColor(200, 200, 200)
			}
			pdf.CellFormat(3, 6, "", "", 0, "L", true, 0, "")
			mark := "[ ]"
			if t.Completed {
				mark = "[x]"
				pdf.SetTextColor(128, 128, 128)
			} else {
				pdf.SetTextColor(0, 0, 0)
			}
			line := fmt.Sprintf(" %s %s  (%s, %s)", mark, t.Text, t.Category, t.Time)
			pdf.MultiCell(0, 6, tr(line), "0", "L", false)
		}
		pdf.Ln(4)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes data to <dir>/<base>-<timestamp>.<ext>, never
// overwriting an earlier export, and returns the path.
func WriteFile(dir, base, ext string, data []byte) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", errors.New("export directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	ts := time.Now().UTC().Format("20060102-150405")
	name := fmt.Sprintf("%s-%s.%s", base, ts, ext)
	path := filepath.Join(dir, name)
	for i := 1; ; i++ {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			break
		}
		name = fmt.Sprintf("%s-%s-%d.%s", base, ts, i, ext)
		path = filepath.Join(dir, name)
	}
	if err := store.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
