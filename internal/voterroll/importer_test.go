package voterroll

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"rollcall/internal/audit"
	id "rollcall/pkg/domain"
)

type ImporterSuite struct {
	suite.Suite
	store    *MemoryStore
	importer *Importer
	ctx      context.Context
}

func TestImporterSuite(t *testing.T) {
	suite.Run(t, new(ImporterSuite))
}

func (s *ImporterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.store = NewMemoryStore()
	s.importer = NewImporter(s.store, audit.NewPublisher(64, logger))
	s.ctx = context.Background()
}

func (s *ImporterSuite) TestImport() {
	s.Run("imports rows and skips the header", func() {
		csv := "reg_no,name,constituency,email\n" +
			"eng/2022/001,Jane Doe,Engineering,jane@campus.edu\n" +
			"SCI/2023/010,Ada O,Science,ada@campus.edu\n"
		result, err := s.importer.Import(s.ctx, id.NewUserID(), strings.NewReader(csv))
		s.Require().NoError(err)
		s.Equal(2, result.Imported)
		s.Zero(result.Skipped)
		s.Empty(result.Errors)

		// reg numbers are normalized to upper case
		voter, err := s.store.FindByRegNo(s.ctx, "ENG/2022/001")
		s.Require().NoError(err)
		s.Equal("Jane Doe", voter.Name)
		s.Equal(StatusEligible, voter.Status)
	})

	s.Run("re-running the same file skips every row", func() {
		csv := "ENG/2022/001,Jane Doe,Engineering,jane@campus.edu\n"
		result, err := s.importer.Import(s.ctx, id.NewUserID(), strings.NewReader(csv))
		s.Require().NoError(err)
		s.Zero(result.Imported)
		s.Equal(1, result.Skipped)
	})
}

func (s *ImporterSuite) TestImportBadRows() {
	s.Run("collects per-line errors and keeps going", func() {
		csv := ",Missing RegNo,Engineering,x@campus.edu\n" +
			"LAW/2024/001,Valid Voter,Law,v@campus.edu\n"
		result, err := s.importer.Import(s.ctx, id.NewUserID(), strings.NewReader(csv))
		s.Require().NoError(err)
		s.Equal(1, result.Imported)
		s.Len(result.Errors, 1)
		s.Contains(result.Errors[0], "line 1")
	})

	s.Run("a short row does not abort the run", func() {
		csv := "MED/2025/001,First Voter,Medicine,f@campus.edu\n" +
			"MED/2025/002,Two Columns Only\n" +
			"MED/2025/003,Third Voter,Medicine,t@campus.edu\n"
		result, err := s.importer.Import(s.ctx, id.NewUserID(), strings.NewReader(csv))
		s.Require().NoError(err)
		s.Equal(2, result.Imported)
		s.Require().Len(result.Errors, 1)
		s.Contains(result.Errors[0], "line 2: expected 4 columns, got 2")
	})

	s.Run("empty input imports nothing", func() {
		result, err := s.importer.Import(s.ctx, id.NewUserID(), strings.NewReader(""))
		s.Require().NoError(err)
		s.Zero(result.Imported)
	})
}

func TestMayVote(t *testing.T) {
	cases := []struct {
		status Status
		want   bool
	}{
		{StatusEligible, true},
		{StatusVoted, true},
		{StatusIneligible, false},
	}
	for _, tc := range cases {
		voter := Voter{Status: tc.status}
		if voter.MayVote() != tc.want {
			t.Errorf("MayVote() with status %s = %v, want %v", tc.status, !tc.want, tc.want)
		}
	}
}
