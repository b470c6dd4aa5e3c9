package article

import (
	"reflect"
	"testing"
)

func columnsOf(lines []PageLine) []int {
	cols := make([]int, len(lines))
	for i, l := range lines {
		cols[i] = l.Column
	}
	return cols
}

func TestAssignColumns(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("three columns", func(t *testing.T) {
		lines := []PageLine{
			pageLine("a", 50, 100, 150),
			pageLine("b", 230, 100, 150),
			pageLine("c", 410, 100, 150),
			pageLine("d", 52, 112, 148),
			pageLine("e", 231, 112, 149),
			pageLine("f", 409, 112, 150),
		}
		cfg.AssignColumns(lines)
		if got, want := columnsOf(lines), []int{0, 1, 2, 0, 1, 2}; !reflect.DeepEqual(got, want) {
			t.Errorf("columns = %v, want %v", got, want)
		}
	})

	t.Run("short trailing line is not a column", func(t *testing.T) {
		lines := []PageLine{
			pageLine("a", 50, 100, 150),
			pageLine("b", 50, 112, 150),
			pageLine("end of paragraph", 130, 124, 30), // narrow, far right of its column edge
			pageLine("c", 230, 100, 150),
			pageLine("d", 230, 112, 150),
		}
		cfg.AssignColumns(lines)
		if got, want := columnsOf(lines), []int{0, 0, 0, 1, 1}; !reflect.DeepEqual(got, want) {
			t.Errorf("columns = %v, want %v", got, want)
		}
	})

	t.Run("capped at max columns", func(t *testing.T) {
		lines := []PageLine{
			pageLine("a", 0, 100, 100),
			pageLine("b", 100, 100, 100),
			pageLine("c", 200, 100, 100),
			pageLine("d", 300, 100, 100),
		}
		cfg.AssignColumns(lines)
		if got, want := columnsOf(lines), []int{0, 1, 2, 2}; !reflect.DeepEqual(got, want) {
			t.Errorf("columns = %v, want %v", got, want)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		lines := []PageLine{
			pageLine("a", 48, 100, 150),
			pageLine("b", 410, 130, 120),
			pageLine("c", 229, 100, 150),
			pageLine("d", 62, 160, 40),
			pageLine("e", 236, 112, 140),
		}
		cfg.AssignColumns(lines)
		first := columnsOf(lines)
		cfg.AssignColumns(lines)
		if second := columnsOf(lines); !reflect.DeepEqual(first, second) {
			t.Errorf("second run changed columns: %v → %v", first, second)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		cfg.AssignColumns(nil)
	})
}

func TestSortReadingOrder(t *testing.T) {
	lines := []PageLine{
		{Text: "c1-top", Column: 1, BBox: pageLine("", 230, 100, 1).BBox},
		{Text: "c0-bottom", Column: 0, BBox: pageLine("", 50, 300, 1).BBox},
		{Text: "c0-top", Column: 0, BBox: pageLine("", 50, 100, 1).BBox},
	}
	SortReadingOrder(lines)
	var got []string
	for _, l := range lines {
		got = append(got, l.Text)
	}
	if want := []string{"c0-top", "c0-bottom", "c1-top"}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}
