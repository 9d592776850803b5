package domain

type SeatClass string

const (
	SeatClassEconomy          SeatClass = "ECONOMY"
	SeatClassEconomyPlus      SeatClass = "ECONOMY_PLUS"
	SeatClassPreferredEconomy SeatClass = "PREFERRED_ECONOMY"
	SeatClassBusiness         SeatClass = "BUSINESS"
	SeatClassFirst            SeatClass = "FIRST"
)

// FareCents returns the base fare for a seat class.
func (c SeatClass) FareCents() int64 {
	switch c {
	case SeatClassFirst:
		return 100000
	case SeatClassBusiness:
		return 60000
	case SeatClassPreferredEconomy:
		return 35000
	case SeatClassEconomyPlus:
		return 25000
	default:
		return 15000
	}
}

// FlightSeat is a bookable seat on a FlightInstance. AssignedTo holds the
// passport number of the assigned passenger; empty means available.
type FlightSeat struct {
	Number     string
	Class      SeatClass
	FareCents  int64
	AssignedTo string
}

func (s *FlightSeat) Assigned() bool {
	return s.AssignedTo != ""
}
