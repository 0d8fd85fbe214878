package report

import (
	"bytes"
	"context"

	"github.com/rs/zerolog"

	"github.com/fkhayef/reimburse/internal/expense"
)

// Service renders expense snapshots as spreadsheets and documents
type Service struct {
	expenses *expense.Repository
	log      zerolog.Logger
}

// NewService creates a new report service
func NewService(expenses *expense.Repository, log zerolog.Logger) *Service {
	return &Service{expenses: expenses, log: log}
}

func (s *Service) snapshot(ctx context.Context, req *RangeRequest) (expense.DateRange, []*expense.Expense, error) {
	rng, err := expense.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return expense.DateRange{}, nil, err
	}
	expenses, err := s.expenses.ListAll(ctx, expense.Filter{Range: rng})
	if err != nil {
		return expense.DateRange{}, nil, err
	}
	return rng, expenses, nil
}

// Excel renders the expenses created in the requested range as a workbook
func (s *Service) Excel(ctx context.Context, req *RangeRequest) (*File, error) {
	rng, expenses, err := s.snapshot(ctx, req)
	if err != nil {
		return nil, err
	}

	data, err := renderExcel(expenses)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int("rows", len(expenses)).Msg("expense workbook rendered")
	return &File{Name: filename(rng, "xlsx"), ContentType: ContentTypeExcel, Data: data}, nil
}

// PDF renders the expenses created in the requested range as an A4 document
func (s *Service) PDF(ctx context.Context, req *RangeRequest) (*File, error) {
	rng, expenses, err := s.snapshot(ctx, req)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	pages, err := writePDF(&buf, expenses, rng)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int("rows", len(expenses)).Int("pages", pages).Msg("expense document rendered")
	return &File{Name: filename(rng, "pdf"), ContentType: ContentTypePDF, Data: buf.Bytes()}, nil
}
