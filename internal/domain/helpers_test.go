package domain

import "testing"

func seatWith(money int64) *Seat {
	return &Seat{Name: "p", Money: money}
}

func TestNextEligibleSeat(t *testing.T) {
	tests := []struct {
		name     string
		seats    [TableSeats]*Seat
		from     int
		wantSeat int
		wantOK   bool
	}{
		{
			name:     "advances to adjacent seat",
			seats:    [TableSeats]*Seat{seatWith(100), seatWith(100)},
			from:     0,
			wantSeat: 1,
			wantOK:   true,
		},
		{
			name:     "skips empty seats",
			seats:    [TableSeats]*Seat{seatWith(100), nil, nil, seatWith(100)},
			from:     0,
			wantSeat: 3,
			wantOK:   true,
		},
		{
			name:     "skips broke seats",
			seats:    [TableSeats]*Seat{seatWith(100), seatWith(0), seatWith(50)},
			from:     0,
			wantSeat: 2,
			wantOK:   true,
		},
		{
			name:     "wraps past the end of the table",
			seats:    [TableSeats]*Seat{seatWith(100), nil, nil, nil, nil, seatWith(100)},
			from:     5,
			wantSeat: 0,
			wantOK:   true,
		},
		{
			name:     "comes back to the same seat when alone",
			seats:    [TableSeats]*Seat{nil, nil, seatWith(100)},
			from:     2,
			wantSeat: 2,
			wantOK:   true,
		},
		{
			name:     "no eligible seat at all",
			seats:    [TableSeats]*Seat{seatWith(0), nil, seatWith(0)},
			from:     0,
			wantSeat: 0,
			wantOK:   false,
		},
		{
			name:     "empty table",
			seats:    [TableSeats]*Seat{},
			from:     3,
			wantSeat: 3,
			wantOK:   false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seat, ok := NextEligibleSeat(&tc.seats, tc.from)
			if seat != tc.wantSeat || ok != tc.wantOK {
				t.Fatalf("NextEligibleSeat(from=%d) = (%d, %v), want (%d, %v)", tc.from, seat, ok, tc.wantSeat, tc.wantOK)
			}
		})
	}
}

func TestLowestAvailableSeat(t *testing.T) {
	table := NewTable("AB12C", 50, 10, 15, nil)
	if got := table.LowestAvailableSeat(); got != 0 {
		t.Fatalf("empty table lowest seat = %d, want 0", got)
	}

	table.Seats[0] = seatWith(100)
	table.Seats[1] = seatWith(100)
	table.Seats[3] = seatWith(100)
	if got := table.LowestAvailableSeat(); got != 2 {
		t.Fatalf("lowest seat = %d, want 2", got)
	}

	for i := range table.Seats {
		table.Seats[i] = seatWith(100)
	}
	if got := table.LowestAvailableSeat(); got != NoSeat {
		t.Fatalf("full table lowest seat = %d, want NoSeat", got)
	}
}

func TestSolventSeats(t *testing.T) {
	table := NewTable("AB12C", 50, 10, 15, nil)
	table.Seats[1] = seatWith(0)
	table.Seats[2] = seatWith(500)
	table.Seats[4] = seatWith(1)

	got := table.SolventSeats()
	if len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Fatalf("SolventSeats() = %v, want [2 4]", got)
	}
}

func TestNewTableFallsBackOnInvalidStakes(t *testing.T) {
	table := NewTable("AB12C", 0, -5, 0, nil)
	if table.Ante != 50 || table.Penalty != 10 {
		t.Fatalf("stakes = (%d, %d), want (50, 10)", table.Ante, table.Penalty)
	}
	if table.TurnDuration != DefaultTurnDuration {
		t.Fatalf("turn duration = %d, want %d", table.TurnDuration, DefaultTurnDuration)
	}
	if table.ActiveSeat != NoSeat || table.DealerSeat != NoSeat {
		t.Fatalf("new table seat pointers = (%d, %d), want (NoSeat, NoSeat)", table.ActiveSeat, table.DealerSeat)
	}
	if table.Phase != PhaseLobby {
		t.Fatalf("new table phase = %q, want %q", table.Phase, PhaseLobby)
	}
}

func TestComputeLabel(t *testing.T) {
	table := NewTable("ZZ9QK", 50, 10, 15, nil)
	table.Seats[0] = seatWith(1000)

	label := ComputeLabel(table)
	if !label.Open || label.Game != GameName || label.Phase != "lobby" || label.Code != "ZZ9QK" {
		t.Fatalf("lobby label = %+v", label)
	}

	table.Phase = PhasePlaying
	if label := ComputeLabel(table); label.Open {
		t.Fatalf("playing table should not advertise open, got %+v", label)
	}

	table.Phase = PhaseLobby
	for i := range table.Seats {
		table.Seats[i] = seatWith(1000)
	}
	if label := ComputeLabel(table); label.Open {
		t.Fatalf("full table should not advertise open, got %+v", label)
	}
}
