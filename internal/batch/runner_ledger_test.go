//go:build cgo

package batch

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jackzampolin/folio/internal/article"
	"github.com/jackzampolin/folio/internal/export"
	"github.com/jackzampolin/folio/internal/layout"
	"github.com/jackzampolin/folio/internal/ledger"
)

func TestRunner_RecordsLedger(t *testing.T) {
	root, out := t.TempDir(), t.TempDir()
	touch(t, filepath.Join(root, "305_BMS.pdf"))
	writeManifest(t, filepath.Join(root, "305_BMS.yaml"), manifest305)

	ctx := context.Background()
	store, err := ledger.Open(ctx, filepath.Join(t.TempDir(), "ledger.db"), discardLogger())
	if err != nil {
		t.Fatalf("opening ledger: %v", err)
	}
	defer store.Close()

	r, err := NewRunner(testOptions(root, out), discardLogger(),
		WithLedger(store),
		WithOpener(memoryOpener(map[string]*layout.Memory{"305_BMS.pdf": {Pages: articlePages()}})))
	if err != nil {
		t.Fatal(err)
	}
	report, err := r.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.RunID == "" {
		t.Fatal("expected a run id")
	}

	runs, err := store.Runs(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != report.RunID || runs[0].Articles != 2 || runs[0].Failed != 1 {
		t.Errorf("unexpected runs %+v", runs)
	}

	events, err := store.Events(ctx, report.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Kind != article.EventMissingStartPage {
		t.Errorf("unexpected events %+v", events)
	}

	outcomes, err := store.Outcomes(ctx, report.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	if o := outcomes[0]; o.Position != 1 || o.Status != export.StatusOK || o.EndIndex == nil || *o.EndIndex != 2 {
		t.Errorf("unexpected first outcome %+v", o)
	}
	if o := outcomes[1]; o.Position != 2 || o.Status != export.StatusFailed || o.Error == "" {
		t.Errorf("unexpected second outcome %+v", o)
	}
}
