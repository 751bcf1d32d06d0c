package handlers

import "testing"

func TestTicketFromRequestRecomputesHours(t *testing.T) {
	h := &JobTicketHandler{}

	// Client-sent totals are wildly off; both clock pairs are present, so
	// the server's computation wins.
	req := jobTicketRequest{
		WorkStartTime:    "09:00",
		WorkEndTime:      "17:30",
		WorkTotalHours:   99,
		TravelStartTime:  "22:00",
		TravelEndTime:    "06:00",
		TravelTotalHours: 99,
	}

	ticket, err := h.ticketFromRequest(req)
	if err != nil {
		t.Fatalf("ticketFromRequest: %v", err)
	}
	if ticket.WorkTotalHours != 8.5 {
		t.Errorf("WorkTotalHours = %v, want 8.5", ticket.WorkTotalHours)
	}
	if ticket.TravelTotalHours != 8 {
		t.Errorf("TravelTotalHours = %v, want 8 (overnight wrap)", ticket.TravelTotalHours)
	}
}

func TestTicketFromRequestKeepsClientHoursWhenPairIncomplete(t *testing.T) {
	h := &JobTicketHandler{}

	// Only a start time for work, no travel clocks at all: nothing to
	// recompute, the client values stand.
	req := jobTicketRequest{
		WorkStartTime:    "09:00",
		WorkTotalHours:   3.25,
		TravelTotalHours: 1.5,
	}

	ticket, err := h.ticketFromRequest(req)
	if err != nil {
		t.Fatalf("ticketFromRequest: %v", err)
	}
	if ticket.WorkTotalHours != 3.25 {
		t.Errorf("WorkTotalHours = %v, want 3.25", ticket.WorkTotalHours)
	}
	if ticket.TravelTotalHours != 1.5 {
		t.Errorf("TravelTotalHours = %v, want 1.5", ticket.TravelTotalHours)
	}
}

func TestTicketFromRequestRejectsMalformedClocks(t *testing.T) {
	h := &JobTicketHandler{}

	if _, err := h.ticketFromRequest(jobTicketRequest{WorkStartTime: "9am", WorkEndTime: "17:00"}); err == nil || err.Error() != "invalid work time" {
		t.Errorf("work err = %v, want invalid work time", err)
	}
	if _, err := h.ticketFromRequest(jobTicketRequest{TravelStartTime: "08:00", TravelEndTime: "24:00"}); err == nil || err.Error() != "invalid travel time" {
		t.Errorf("travel err = %v, want invalid travel time", err)
	}
}
