package helpdesk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(tickets []Ticket) []string {
	out := make([]string, len(tickets))
	for i, t := range tickets {
		out[i] = t.ID
	}
	return out
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name      string
		items     []Ticket
		incoming  Ticket
		wantIDs   []string
		wantTitle map[string]string
	}{
		{
			name:      "known id replaces in place",
			items:     []Ticket{{ID: "t1", Title: "one"}, {ID: "t2", Title: "two"}},
			incoming:  Ticket{ID: "t2", Title: "two updated"},
			wantIDs:   []string{"t1", "t2"},
			wantTitle: map[string]string{"t1": "one", "t2": "two updated"},
		},
		{
			name:      "unseen id prepends",
			items:     []Ticket{{ID: "t1", Title: "one"}},
			incoming:  Ticket{ID: "t3", Title: "three"},
			wantIDs:   []string{"t3", "t1"},
			wantTitle: map[string]string{"t1": "one", "t3": "three"},
		},
		{
			name:      "empty list",
			items:     nil,
			incoming:  Ticket{ID: "t1", Title: "one"},
			wantIDs:   []string{"t1"},
			wantTitle: map[string]string{"t1": "one"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := append([]Ticket(nil), tt.items...)

			got := Merge(tt.items, tt.incoming)

			assert.Equal(t, tt.wantIDs, ids(got))
			for _, tk := range got {
				assert.Equal(t, tt.wantTitle[tk.ID], tk.Title)
			}
			assert.Equal(t, before, tt.items, "input must not be modified")
		})
	}
}

func TestMerge_LastArrivalWins(t *testing.T) {
	items := []Ticket{{ID: "t1", Version: 5}}

	items = Merge(items, Ticket{ID: "t1", Version: 3})

	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Version)
}

func TestLiveList(t *testing.T) {
	l := NewLiveList([]Message{{ID: "m2"}, {ID: "m1"}})

	l.Merge(Message{ID: "m3"})
	l.Merge(Message{ID: "m1", Content: "edited"})
	assert.Equal(t, 3, l.Len())

	got, ok := l.Get("m1")
	require.True(t, ok)
	assert.Equal(t, "edited", got.Content)

	assert.True(t, l.Remove("m2"))
	assert.False(t, l.Remove("m2"))

	items := l.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "m3", items[0].ID)
	assert.Equal(t, "m1", items[1].ID)

	items[0].ID = "mutated"
	_, ok = l.Get("m3")
	assert.True(t, ok, "Items must return a copy")

	l.Reset(nil)
	assert.Equal(t, 0, l.Len())
}
