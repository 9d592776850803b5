package domain

import "time"

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "SCHEDULED"
	FlightStatusDeparted  FlightStatus = "DEPARTED"
	FlightStatusLanded    FlightStatus = "LANDED"
	FlightStatusDelayed   FlightStatus = "DELAYED"
	FlightStatusCancelled FlightStatus = "CANCELLED"
)

type Airport struct {
	Code    string
	Name    string
	Flights []*Flight
}

// Flight is a scheduled route between two airports, independent of date.
type Flight struct {
	Number          string
	Departure       *Airport
	Arrival         *Airport
	DurationMinutes int
	Instances       []*FlightInstance
}

// FlightInstance is one concrete departure of a Flight on a specific date/time.
type FlightInstance struct {
	ID            int64
	FlightNumber  string
	DepartureTime time.Time
	Gate          string
	Aircraft      string
	Status        FlightStatus
	Seats         []*FlightSeat
}

// AvailableSeats returns the seats not yet assigned to a passenger.
func (fi *FlightInstance) AvailableSeats() []*FlightSeat {
	available := make([]*FlightSeat, 0, len(fi.Seats))
	for _, seat := range fi.Seats {
		if !seat.Assigned() {
			available = append(available, seat)
		}
	}
	return available
}

// SeatByNumber returns the seat with the given number, or nil.
func (fi *FlightInstance) SeatByNumber(number string) *FlightSeat {
	for _, seat := range fi.Seats {
		if seat.Number == number {
			return seat
		}
	}
	return nil
}
