// Package datamigration holds one-off data repair and import scripts. Each
// script runs in a single transaction and can be dry-run.
package datamigration

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// errDryRun rolls back the transaction after a dry run
var errDryRun = errors.New("dry run")

// Options are the flags passed to a script
type Options struct {
	DryRun bool
	// Params carries script specific flags such as "file" or "email"
	Params map[string]string
}

// Param returns a script flag or "" when unset
func (o Options) Param(name string) string {
	if o.Params == nil {
		return ""
	}
	return o.Params[name]
}

// Result summarises what a script did
type Result struct {
	Script    string        `json:"script"`
	DryRun    bool          `json:"dry_run"`
	Scanned   int           `json:"scanned"`
	Changed   int           `json:"changed"`
	Skipped   int           `json:"skipped"`
	Conflicts []string      `json:"conflicts,omitempty"`
	Duration  time.Duration `json:"duration"`
}

func (r *Result) conflict(format string, args ...any) {
	r.Skipped++
	r.Conflicts = append(r.Conflicts, fmt.Sprintf(format, args...))
}

// Script is a named data migration
type Script interface {
	Name() string
	Description() string
	Run(ctx context.Context, tx *gorm.DB, opts Options, result *Result) error
}

// Registry looks scripts up by name
type Registry struct {
	scripts map[string]Script
	logger  *zap.Logger
}

// NewRegistry creates a registry holding the given scripts
func NewRegistry(logger *zap.Logger, scripts ...Script) *Registry {
	r := &Registry{scripts: make(map[string]Script, len(scripts)), logger: logger}
	for _, s := range scripts {
		r.scripts[s.Name()] = s
	}
	return r
}

// DefaultRegistry returns every built-in script
func DefaultRegistry(logger *zap.Logger) *Registry {
	return NewRegistry(logger,
		NormalizeEmails{},
		BackfillSlugs{},
		UppercaseSKUs{},
		LinkLeads{},
		ImportCustomers{},
		SeedAdmin{},
	)
}

// Scripts returns the registered scripts sorted by name
func (r *Registry) Scripts() []Script {
	out := make([]Script, 0, len(r.scripts))
	for _, s := range r.scripts {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Run executes the named script in a transaction. Dry runs roll back but
// still report what would have changed.
func (r *Registry) Run(ctx context.Context, db *gorm.DB, name string, opts Options) (*Result, error) {
	script, ok := r.scripts[name]
	if !ok {
		return nil, fmt.Errorf("unknown data migration %q", name)
	}

	result := &Result{Script: name, DryRun: opts.DryRun}
	start := time.Now()
	log := r.logger.With(zap.String("script", name), zap.Bool("dry_run", opts.DryRun))
	log.Info("Running data migration")

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := script.Run(ctx, tx, opts, result); err != nil {
			return err
		}
		if opts.DryRun {
			return errDryRun
		}
		return nil
	})
	result.Duration = time.Since(start)
	if err != nil && !errors.Is(err, errDryRun) {
		log.Error("Data migration failed", zap.Error(err))
		return result, fmt.Errorf("%s: %w", name, err)
	}

	for _, c := range result.Conflicts {
		log.Warn("Data migration conflict", zap.String("detail", c))
	}
	log.Info("Data migration finished",
		zap.Int("scanned", result.Scanned),
		zap.Int("changed", result.Changed),
		zap.Int("skipped", result.Skipped),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}
