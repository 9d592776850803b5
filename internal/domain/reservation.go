package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusCreated   ReservationStatus = "CREATED"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

type Customer struct {
	ID                  int64
	Name                string
	Email               string
	FrequentFlyerNumber string
}

type Passenger struct {
	Name           string
	PassportNumber string
	DateOfBirth    time.Time
}

type SeatAssignment struct {
	Passenger Passenger
	Seat      *FlightSeat
}

// FlightReservation links a customer to a flight instance with a set of
// passenger-to-seat assignments and a lifecycle status.
type FlightReservation struct {
	Number      string
	InstanceID  int64
	Customer    Customer
	Assignments []SeatAssignment
	Status      ReservationStatus
	CreatedAt   time.Time
}

// SeatFor returns the seat assigned to the passenger with the given
// passport number, or nil.
func (r *FlightReservation) SeatFor(passportNumber string) *FlightSeat {
	for _, a := range r.Assignments {
		if a.Passenger.PassportNumber == passportNumber {
			return a.Seat
		}
	}
	return nil
}

func (r *FlightReservation) Passengers() []Passenger {
	passengers := make([]Passenger, 0, len(r.Assignments))
	for _, a := range r.Assignments {
		passengers = append(passengers, a.Passenger)
	}
	return passengers
}

func (r *FlightReservation) TotalFareCents() int64 {
	var total int64
	for _, a := range r.Assignments {
		total += a.Seat.FareCents
	}
	return total
}
