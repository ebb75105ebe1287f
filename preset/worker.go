// File: preset/worker.go
package preset

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/confweave/config"
)

var (
	workerBrokerURL = config.MustProperty("worker.broker_url",
		config.String(), config.Cached())

	workerResultBackend = config.MustProperty("worker.result_backend",
		config.String(), config.Cached())

	workerSchedule = config.MustObjectProperty("worker.schedule",
		scheduleFactory,
		config.Recurse(), config.Cached(),
		config.Default(map[string]ScheduleEntry{}))
)

// Worker is the preset for task-queue workers: broker coordinates plus
// a periodic-task schedule table.
type Worker struct {
	Logging
}

// NewWorker wraps c in the worker preset.
func NewWorker(c *config.Config) Worker {
	return Worker{Logging{Conf: c}}
}

// BrokerURL returns the broker URL the worker connects to. Bound to
// worker.broker_url with no default: a worker without a broker is a
// deployment error.
func (w Worker) BrokerURL() (string, error) {
	v, err := workerBrokerURL.Value(w.Conf)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// ResultBackend returns the backend task results are stored in. Bound
// to worker.result_backend with no default.
func (w Worker) ResultBackend() (string, error) {
	v, err := workerResultBackend.Value(w.Conf)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// ScheduleEntry is one periodic task from [worker.schedule.<name>].
type ScheduleEntry struct {
	// Task names the function the worker should invoke.
	Task string

	// Expr is the schedule field as written.
	Expr string

	// Schedule is the parsed form, ready for Next() queries.
	Schedule cron.Schedule

	// Every is non-zero when Expr was a duration rather than a cron
	// expression.
	Every time.Duration

	// Args are passed to the task verbatim.
	Args []any
}

// Schedule returns the parsed schedule table. TOML has no duration or
// cron types, so each entry's schedule field is a string holding either
// a Go duration ("30s") or a standard five-field cron expression
// ("*/5 * * * *"). A missing table yields an empty schedule.
func (w Worker) Schedule() (map[string]ScheduleEntry, error) {
	v, err := workerSchedule.Value(w.Conf)
	if err != nil {
		return nil, err
	}
	return v.(map[string]ScheduleEntry), nil
}

// Settings returns the [worker] table with upper-cased keys, the form
// task-queue frameworks conventionally take their configuration in. A
// missing or non-table [worker] yields an empty map.
func (w Worker) Settings() map[string]any {
	table, err := w.Conf.Table("worker")
	if err != nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(table))
	for k, v := range table {
		out[strings.ToUpper(k)] = v
	}
	return out
}

// OnLoaded runs the given hooks in declaration order once the worker
// app is ready, stopping at the first error.
func (w Worker) OnLoaded(hooks ...func(Worker) error) error {
	for _, hook := range hooks {
		if err := hook(w); err != nil {
			return err
		}
	}
	return nil
}

// scheduleFactory turns the (environment-overlaid) schedule table into
// parsed entries. Malformed entries fail the whole table; a schedule
// that silently drops tasks is worse than one that refuses to start.
func scheduleFactory(table map[string]any) (any, error) {
	out := make(map[string]ScheduleEntry, len(table))
	for name, raw := range table {
		entry, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("worker.schedule.%s must be a table, not %T", name, raw)
		}

		task, ok := entry["task"].(string)
		if !ok || task == "" {
			return nil, fmt.Errorf("worker.schedule.%s lacks a task field", name)
		}

		expr, ok := entry["schedule"].(string)
		if !ok {
			return nil, fmt.Errorf("worker.schedule.%s lacks a schedule string", name)
		}

		parsed, every, err := parseScheduleExpr(expr)
		if err != nil {
			return nil, fmt.Errorf("worker.schedule.%s: %w", name, err)
		}

		args, _ := entry["args"].([]any)

		out[name] = ScheduleEntry{
			Task:     task,
			Expr:     expr,
			Schedule: parsed,
			Every:    every,
			Args:     args,
		}
	}
	return out, nil
}

// parseScheduleExpr accepts a Go duration or a cron expression.
// Durations are tried first; "30s" is not a valid cron spec, and no
// cron expression parses as a duration, so the forms cannot collide.
func parseScheduleExpr(expr string) (cron.Schedule, time.Duration, error) {
	if d, err := time.ParseDuration(expr); err == nil {
		if d <= 0 {
			return nil, 0, fmt.Errorf("schedule duration must be positive, got %q", expr)
		}
		return cron.Every(d), d, nil
	}
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, 0, fmt.Errorf("schedule %q is neither a duration nor a cron expression: %w", expr, err)
	}
	return sched, 0, nil
}
