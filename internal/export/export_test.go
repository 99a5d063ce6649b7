package export_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"comicbatch/internal/batch"
	"comicbatch/internal/export"
	"comicbatch/internal/normalize"
	"comicbatch/internal/services"
	"comicbatch/internal/testsupport"
	"comicbatch/internal/workspace"
)

type recordingAssembler struct {
	outputs []string
	pages   [][]string
	metas   []export.Metadata
	err     error
}

func (r *recordingAssembler) Assemble(_ context.Context, outputPath string, pages []string, meta export.Metadata) error {
	if r.err != nil {
		return r.err
	}
	names := make([]string, len(pages))
	for i, p := range pages {
		names[i] = filepath.Base(p)
	}
	r.outputs = append(r.outputs, outputPath)
	r.pages = append(r.pages, names)
	r.metas = append(r.metas, meta)
	return os.WriteFile(outputPath, []byte("%PDF"), 0o644)
}

func seedUnits(t *testing.T, ws *workspace.Workspace, pagesPerUnit ...int) {
	t.Helper()
	for unit, pages := range pagesPerUnit {
		for p := 0; p < pages; p++ {
			testsupport.WriteFile(t, filepath.Join(ws.NormalizedDir(unit), normalize.PageName(p)), 8)
		}
	}
}

func newWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	ws, err := workspace.Initialize(t.TempDir(), ".comicbatch")
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { _ = ws.Teardown() })
	return ws
}

func TestExportRenumbersAcrossGroup(t *testing.T) {
	ws := newWorkspace(t)
	seedUnits(t, ws, 3, 2)
	outDir := t.TempDir()

	assembler := &recordingAssembler{}
	exporter := export.New(assembler, export.Options{Dir: outDir, Prefix: "comic"}, nil)
	outputs, err := exporter.Export(context.Background(), ws, []batch.Group{{Units: []int{0, 1}, Size: 40}}, nil)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	want := []string{
		"000000_page_0000.jpg",
		"000001_page_0001.jpg",
		"000002_page_0002.jpg",
		"000003_page_0000.jpg",
		"000004_page_0001.jpg",
	}
	if !reflect.DeepEqual(assembler.pages[0], want) {
		t.Fatalf("staged pages = %v, want %v", assembler.pages[0], want)
	}
	if len(outputs) != 1 || outputs[0].Pages != 5 || outputs[0].Ordinal != 1 {
		t.Fatalf("unexpected outputs %+v", outputs)
	}
	if outputs[0].Path != filepath.Join(outDir, "comic_001.pdf") {
		t.Fatalf("unexpected output path %s", outputs[0].Path)
	}
	if outputs[0].Size != 4 {
		t.Fatalf("expected output size to be measured, got %d", outputs[0].Size)
	}
}

func TestExportResetsStagingPerGroup(t *testing.T) {
	ws := newWorkspace(t)
	seedUnits(t, ws, 2, 1, 4)
	outDir := t.TempDir()

	assembler := &recordingAssembler{}
	groups := []batch.Group{{Units: []int{0, 1}}, {Units: []int{2}}}
	var progress []int
	outputs, err := export.New(assembler, export.Options{Dir: outDir, Prefix: "series", Title: "Saga", Author: "Someone"}, nil).
		Export(context.Background(), ws, groups, func(done, total int) {
			progress = append(progress, done)
		})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	if len(assembler.pages[1]) != 4 || assembler.pages[1][0] != "000000_page_0000.jpg" {
		t.Fatalf("second group should restart numbering without leftovers, got %v", assembler.pages[1])
	}
	wantPaths := []string{filepath.Join(outDir, "series_001.pdf"), filepath.Join(outDir, "series_002.pdf")}
	if !reflect.DeepEqual(assembler.outputs, wantPaths) {
		t.Fatalf("outputs = %v, want %v", assembler.outputs, wantPaths)
	}
	wantMeta := []export.Metadata{{Title: "Saga 1", Author: "Someone"}, {Title: "Saga 2", Author: "Someone"}}
	if !reflect.DeepEqual(assembler.metas, wantMeta) {
		t.Fatalf("metadata = %+v, want %+v", assembler.metas, wantMeta)
	}
	if !reflect.DeepEqual(outputs[1].Units, []int{2}) {
		t.Fatalf("unexpected units for second output %v", outputs[1].Units)
	}
	if !reflect.DeepEqual(progress, []int{1, 2}) {
		t.Fatalf("unexpected progress %v", progress)
	}
}

func TestExportAssemblerFailure(t *testing.T) {
	ws := newWorkspace(t)
	seedUnits(t, ws, 1)

	assembler := &recordingAssembler{err: errors.New("disk full")}
	_, err := export.New(assembler, export.Options{Dir: t.TempDir(), Prefix: "comic"}, nil).
		Export(context.Background(), ws, []batch.Group{{Units: []int{0}}}, nil)
	if !errors.Is(err, services.ErrExport) {
		t.Fatalf("expected export error, got %v", err)
	}
	if stage, _ := services.StageOf(err); stage != "export" {
		t.Fatalf("expected export stage, got %q", stage)
	}
}

func TestExportSkipsEmptyGroups(t *testing.T) {
	ws := newWorkspace(t)
	seedUnits(t, ws, 2, 0, 1)
	if err := os.MkdirAll(ws.NormalizedDir(1), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	outDir := t.TempDir()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	assembler := &recordingAssembler{}
	groups := []batch.Group{{Units: []int{0}}, {Units: []int{1}}, {Units: []int{2}}}
	var progress []int
	outputs, err := export.New(assembler, export.Options{Dir: outDir, Prefix: "comic", Title: "Saga", Numbering: export.NumberMultiple}, logger).
		Export(context.Background(), ws, groups, func(done, total int) {
			progress = append(progress, done)
		})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	wantPaths := []string{filepath.Join(outDir, "comic_001.pdf"), filepath.Join(outDir, "comic_002.pdf")}
	if !reflect.DeepEqual(assembler.outputs, wantPaths) {
		t.Fatalf("outputs = %v, want %v", assembler.outputs, wantPaths)
	}
	wantMeta := []export.Metadata{{Title: "Saga 1"}, {Title: "Saga 2"}}
	if !reflect.DeepEqual(assembler.metas, wantMeta) {
		t.Fatalf("metadata = %+v, want %+v", assembler.metas, wantMeta)
	}
	if len(outputs) != 2 || outputs[1].Ordinal != 2 || !reflect.DeepEqual(outputs[1].Units, []int{2}) {
		t.Fatalf("unexpected outputs %+v", outputs)
	}
	if !reflect.DeepEqual(progress, []int{1, 2, 3}) {
		t.Fatalf("unexpected progress %v", progress)
	}
	if !strings.Contains(buf.String(), `"event_type":"group_empty"`) {
		t.Fatalf("expected group_empty warning, got %s", buf.String())
	}
}

func TestExportSingleNonEmptyGroupIsUnnumbered(t *testing.T) {
	ws := newWorkspace(t)
	seedUnits(t, ws, 0, 3)
	if err := os.MkdirAll(ws.NormalizedDir(0), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	assembler := &recordingAssembler{}
	groups := []batch.Group{{Units: []int{0}}, {Units: []int{1}}}
	_, err := export.New(assembler, export.Options{Dir: t.TempDir(), Prefix: "comic", Title: "Saga", Numbering: export.NumberMultiple}, nil).
		Export(context.Background(), ws, groups, nil)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(assembler.metas) != 1 || assembler.metas[0].Title != "Saga" {
		t.Fatalf("expected one unnumbered document, got %+v", assembler.metas)
	}
}

func TestExportOrdersPagesNumerically(t *testing.T) {
	ws := newWorkspace(t)
	dir := ws.NormalizedDir(0)
	for _, name := range []string{"page_10000.jpg", "page_9999.jpg", "page_0003-1.jpg", "page_0003-0.jpg", "page_0003-10.jpg"} {
		testsupport.WriteFile(t, filepath.Join(dir, name), 4)
	}

	assembler := &recordingAssembler{}
	if _, err := export.New(assembler, export.Options{Dir: t.TempDir(), Prefix: "comic"}, nil).
		Export(context.Background(), ws, []batch.Group{{Units: []int{0}}}, nil); err != nil {
		t.Fatalf("Export: %v", err)
	}
	want := []string{
		"000000_page_0003-0.jpg",
		"000001_page_0003-1.jpg",
		"000002_page_0003-10.jpg",
		"000003_page_9999.jpg",
		"000004_page_10000.jpg",
	}
	if !reflect.DeepEqual(assembler.pages[0], want) {
		t.Fatalf("staged pages = %v, want %v", assembler.pages[0], want)
	}
}

func TestExportNoGroups(t *testing.T) {
	ws := newWorkspace(t)
	assembler := &recordingAssembler{}
	outputs, err := export.New(assembler, export.Options{Dir: t.TempDir(), Prefix: "comic"}, nil).
		Export(context.Background(), ws, nil, nil)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(outputs) != 0 || len(assembler.outputs) != 0 {
		t.Fatalf("expected no documents, got %v", assembler.outputs)
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		base, numbering string
		ordinal, total  int
		want            string
	}{
		{base: "", numbering: export.NumberAlways, ordinal: 1, total: 3, want: ""},
		{base: "Saga", numbering: export.NumberAlways, ordinal: 2, total: 3, want: "Saga 2"},
		{base: "Saga", numbering: export.NumberAlways, ordinal: 1, total: 1, want: "Saga 1"},
		{base: "Saga", numbering: export.NumberMultiple, ordinal: 1, total: 1, want: "Saga"},
		{base: "Saga", numbering: export.NumberMultiple, ordinal: 3, total: 4, want: "Saga 3"},
	}
	for _, tt := range tests {
		if got := export.Title(tt.base, tt.numbering, tt.ordinal, tt.total); got != tt.want {
			t.Errorf("Title(%q, %q, %d, %d) = %q, want %q", tt.base, tt.numbering, tt.ordinal, tt.total, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	if got := export.OutputPath("/out", "comic", 12); got != filepath.Join("/out", "comic_012.pdf") {
		t.Fatalf("unexpected path %s", got)
	}
	if got := export.OutputPath("/out", "comic", 1234); got != filepath.Join("/out", "comic_1234.pdf") {
		t.Fatalf("ordinals past 999 should widen, got %s", got)
	}
}
