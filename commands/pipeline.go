package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/learnerhub/learner-sheets/export"
	"github.com/learnerhub/learner-sheets/roster"
	"github.com/learnerhub/learner-sheets/store"
)

// pipeline runs the sync steps in order against a single database connection:
// truncate, fetch, diff, insert, execute procedures, export.
type pipeline struct {
	db         *store.DB
	fetch      func(ctx context.Context) ([][]any, error)
	table      string
	truncate   []string
	procedures []string
	exports    []Export
	timestamp  time.Time
	debug      bool
}

type summary struct {
	fetched  int
	skipped  int
	inserted int
	exported []string
}

func (p *pipeline) run(ctx context.Context) (*summary, error) {
	s := summary{
		exported: []string{},
	}

	// ... truncate
	for _, table := range p.truncate {
		if err := p.db.Truncate(ctx, table); err != nil {
			return nil, err
		}

		infof("Truncated %v", table)
	}

	// ... fetch
	values, err := p.fetch(ctx)
	if err != nil {
		return nil, err
	}

	learners, err := roster.MakeRoster(values)
	if err != nil {
		return nil, fmt.Errorf("error creating roster from worksheet (%w)", err)
	}

	s.fetched = len(learners.Records)
	if s.fetched == 0 {
		warnf("Worksheet has no learner records")
	} else {
		infof("Retrieved %v records from worksheet", s.fetched)
	}

	// ... diff and insert
	existing, err := p.db.Keys(ctx, p.table)
	if err != nil {
		return nil, err
	}

	added, skipped := roster.Diff(learners.Records, existing)
	s.skipped = len(skipped)

	if p.debug {
		for _, r := range skipped {
			debugf("%v already in %v", r.Key(), p.table)
		}
	}

	if s.inserted, err = p.db.Insert(ctx, p.table, added); err != nil {
		return nil, err
	}

	infof("Inserted %v new records into %v (%v existing)", s.inserted, p.table, s.skipped)

	// ... stored procedures
	for _, procedure := range p.procedures {
		if err := p.db.Execute(ctx, procedure); err != nil {
			return nil, err
		}

		infof("Executed %v", procedure)
	}

	// ... exports
	if s.exported, err = p.export(ctx); err != nil {
		return nil, err
	}

	return &s, nil
}

// export writes each configured table to <dir>/<prefix>_<timestamp>.csv, returning the
// exported files.
func (p *pipeline) export(ctx context.Context) ([]string, error) {
	files := []string{}

	for _, e := range p.exports {
		header, rows, err := p.db.Export(ctx, e.Table)
		if err != nil {
			return files, err
		}

		file, err := export.ToFile(e.Dir, e.Prefix, p.timestamp, header, rows)
		if err != nil {
			return files, err
		}

		files = append(files, file)
		infof("Exported %v (%v records) to %v", e.Table, len(rows), file)
	}

	return files, nil
}
