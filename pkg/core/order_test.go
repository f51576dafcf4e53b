package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/sticky/pkg/core"
)

func texts(todos []core.Todo) []string {
	out := make([]string, len(todos))
	for i, t := range todos {
		out[i] = t.Text
	}
	return out
}

func at(minutes int) time.Time {
	return fixedNow.Add(time.Duration(minutes) * time.Minute)
}

func ptr(t time.Time) *time.Time { return &t }

func TestOrderTodos_Buckets(t *testing.T) {
	todos := []core.Todo{
		{Text: "A", CreatedAt: at(0)},
		{Text: "B", Priority: true, CreatedAt: at(1)},
		{Text: "C", Completed: true, CreatedAt: at(2), CompletedAt: ptr(at(3))},
	}
	assert.Equal(t, []string{"B", "A", "C"}, texts(core.OrderTodos(todos)))
}

func TestOrderTodos_WithinBuckets(t *testing.T) {
	todos := []core.Todo{
		{Text: "done-old", Completed: true, CreatedAt: at(0), CompletedAt: ptr(at(10))},
		{Text: "pending-late", CreatedAt: at(5)},
		{Text: "prio-late", Priority: true, CreatedAt: at(4)},
		{Text: "done-new", Completed: true, CreatedAt: at(1), CompletedAt: ptr(at(20))},
		{Text: "pending-early", CreatedAt: at(1)},
		{Text: "prio-early", Priority: true, CreatedAt: at(2)},
	}
	assert.Equal(t, []string{
		"prio-early", "prio-late",
		"pending-early", "pending-late",
		"done-new", "done-old",
	}, texts(core.OrderTodos(todos)))
}

func TestOrderTodos_MissingTimestampsSortLast(t *testing.T) {
	todos := []core.Todo{
		{Text: "no-date-1"},
		{Text: "dated", CreatedAt: at(3)},
		{Text: "no-date-2"},
		{Text: "done-no-date", Completed: true},
		{Text: "done-dated", Completed: true, CompletedAt: ptr(at(1))},
	}
	assert.Equal(t, []string{
		"dated", "no-date-1", "no-date-2",
		"done-dated", "done-no-date",
	}, texts(core.OrderTodos(todos)))
}

func TestOrderTodos_StableForEqualKeys(t *testing.T) {
	todos := []core.Todo{
		{Text: "first", CreatedAt: at(0)},
		{Text: "second", CreatedAt: at(0)},
		{Text: "third", CreatedAt: at(0)},
	}
	assert.Equal(t, []string{"first", "second", "third"}, texts(core.OrderTodos(todos)))
}
