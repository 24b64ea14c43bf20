package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"seqgen/internal/source"
)

type shortDiag struct {
	path string
	line uint32
	col  uint32
	sev  Severity
	code string
	msg  string
}

// FormatShortDiagnostics renders diagnostics one per line as
// "sev CODE path:line:col message", sorted for stable comparison in tests.
func FormatShortDiagnostics(fs *source.FileSet, diags []Diagnostic) string {
	if len(diags) == 0 {
		return ""
	}
	rows := make([]shortDiag, 0, len(diags))
	for _, d := range diags {
		path, line, col := resolveSpan(fs, d.Primary)
		rows = append(rows, shortDiag{
			path: path,
			line: line,
			col:  col,
			sev:  d.Severity,
			code: d.Code.ID(),
			msg:  sanitizeMessage(d.Message),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.path != b.path {
			return a.path < b.path
		}
		if a.line != b.line {
			return a.line < b.line
		}
		if a.col != b.col {
			return a.col < b.col
		}
		if a.sev != b.sev {
			return a.sev > b.sev
		}
		if a.code != b.code {
			return a.code < b.code
		}
		return a.msg < b.msg
	})

	var sb strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&sb, "%s %s %s:%d:%d %s\n", r.sev.Label(), r.code, r.path, r.line, r.col, r.msg)
	}
	return sb.String()
}

func resolveSpan(fs *source.FileSet, sp source.Span) (path string, line, col uint32) {
	if fs == nil || int(sp.File) >= fs.Len() {
		return "<unknown>", 0, 0
	}
	f := fs.Get(sp.File)
	start, _ := fs.Resolve(sp)
	return filepath.ToSlash(f.Path), start.Line, start.Col
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", " ")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
