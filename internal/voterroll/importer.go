package voterroll

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"rollcall/internal/audit"
	id "rollcall/pkg/domain"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/sentinel"
	"rollcall/pkg/requestcontext"
)

// Importer loads the eligible-voter ledger from CSV. Expected columns:
// reg_no,name,constituency,email. A header row is detected and skipped.
// Duplicate registration numbers are skipped, not treated as failures, so an
// import can be re-run after a partial load.
type Importer struct {
	store Store
	audit *audit.Publisher
}

// NewImporter wires the CSV importer.
func NewImporter(store Store, publisher *audit.Publisher) *Importer {
	return &Importer{store: store, audit: publisher}
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// Import reads CSV rows and inserts ledger entries. Malformed rows are
// reported per line; the run continues past them.
func (imp *Importer) Import(ctx context.Context, actorID id.UserID, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	// Rows with the wrong column count are reported per line, not fatal.
	reader.FieldsPerRecord = -1

	result := &ImportResult{}
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, dErrors.Wrap(dErrors.CodeBadRequest, "malformed CSV", err)
		}
		line++

		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "reg_no") {
			continue
		}
		if len(record) < 4 {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: expected 4 columns, got %d", line, len(record)))
			continue
		}

		voter := &Voter{
			ID:           id.NewVoterID(),
			RegNo:        strings.ToUpper(strings.TrimSpace(record[0])),
			Name:         strings.TrimSpace(record[1]),
			Constituency: strings.TrimSpace(record[2]),
			Email:        strings.ToLower(strings.TrimSpace(record[3])),
			Status:       StatusEligible,
		}
		if voter.RegNo == "" || voter.Name == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: reg_no and name are required", line))
			continue
		}

		err = imp.store.Create(ctx, voter)
		if errors.Is(err, sentinel.ErrConflict) {
			result.Skipped++
			continue
		}
		if err != nil {
			return result, dErrors.Wrap(dErrors.CodeInternal, "failed to store voter", err)
		}
		result.Imported++
	}

	imp.audit.Emit(ctx, audit.Event{
		ActorType: audit.ActorUser,
		ActorID:   actorID.String(),
		Action:    audit.ActionImportVoters,
		Entity:    "eligible_voter",
		Payload:   map[string]any{"imported": result.Imported, "skipped": result.Skipped},
		Timestamp: requestcontext.Now(ctx),
	})
	return result, nil
}
