package storage

import (
	"testing"

	"github.com/barbearia-nativa/bookingd/internal/model"
)

func TestCancelsAppointment(t *testing.T) {
	cases := []struct {
		prev string
		next string
		want bool
	}{
		{model.StatusPending, model.StatusCancelled, true},
		{model.StatusConfirmed, model.StatusCancelled, true},
		{model.StatusCancelled, model.StatusCancelled, false},
		{model.StatusPending, model.StatusConfirmed, false},
		{model.StatusPending, model.StatusPending, false},
		{model.StatusCancelled, model.StatusPending, false},
	}
	for _, tc := range cases {
		if got := cancelsAppointment(tc.prev, tc.next); got != tc.want {
			t.Fatalf("cancelsAppointment(%s, %s): expected %v, got %v", tc.prev, tc.next, tc.want, got)
		}
	}
}
