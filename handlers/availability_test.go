package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"barbearia-backend/models"

	"github.com/google/uuid"
)

// The clock is pinned a few days before the queried date so the same-day
// cutoff never interferes unless a test wants it to.
var availabilityClock = fixedClock(time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC))

func availabilitySlots(t *testing.T, resp map[string]interface{}) []interface{} {
	t.Helper()
	daySlots, ok := resp["slots"].([]interface{})
	if !ok {
		t.Fatalf("expected slots array in response, got %v", resp)
	}
	return daySlots
}

func TestGetAvailabilityFullDay(t *testing.T) {
	db := freshDB()
	router := setupAvailabilityRouter(db, availabilityClock)

	barber, _ := seedBarber(db)
	seedWeeklySchedule(db, "09:00", "12:00")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/availability?barber_id="+barber.ID.String()+"&date=2025-07-15", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["open"] != true {
		t.Error("expected open=true")
	}
	daySlots := availabilitySlots(t, resp)
	if len(daySlots) != 6 {
		t.Fatalf("expected 6 slots for 09:00-12:00 at 30m, got %d", len(daySlots))
	}
	first := daySlots[0].(map[string]interface{})
	if first["time"] != "09:00" {
		t.Errorf("expected first slot 09:00, got %v", first["time"])
	}
	last := daySlots[5].(map[string]interface{})
	if last["time"] != "11:30" {
		t.Errorf("expected last slot 11:30, got %v", last["time"])
	}
	for _, s := range daySlots {
		if s.(map[string]interface{})["available"] != true {
			t.Errorf("expected all slots available, got %v", s)
		}
	}
}

func TestGetAvailabilityMarksTakenSlot(t *testing.T) {
	db := freshDB()
	router := setupAvailabilityRouter(db, availabilityClock)

	barber, _ := seedBarber(db)
	client, _ := seedTestUser(db, "client-avail@test.com", "client")
	seedWeeklySchedule(db, "09:00", "12:00")
	seedAppointment(db, client.ID, barber.ID,
		time.Date(2025, 7, 15, 9, 30, 0, 0, time.UTC), models.AppointmentStatusPending)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/availability?barber_id="+barber.ID.String()+"&date=2025-07-15", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	daySlots := availabilitySlots(t, parseResponse(w))
	if len(daySlots) != 6 {
		t.Fatalf("taken slots must stay visible; expected 6 slots, got %d", len(daySlots))
	}
	for _, raw := range daySlots {
		s := raw.(map[string]interface{})
		wantAvailable := s["time"] != "09:30"
		if s["available"] != wantAvailable {
			t.Errorf("slot %v: expected available=%v, got %v", s["time"], wantAvailable, s["available"])
		}
	}
}

func TestGetAvailabilityCancelledFreesSlot(t *testing.T) {
	db := freshDB()
	router := setupAvailabilityRouter(db, availabilityClock)

	barber, _ := seedBarber(db)
	client, _ := seedTestUser(db, "client-cancel@test.com", "client")
	seedWeeklySchedule(db, "09:00", "12:00")
	seedAppointment(db, client.ID, barber.ID,
		time.Date(2025, 7, 15, 9, 30, 0, 0, time.UTC), models.AppointmentStatusCancelled)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/availability?barber_id="+barber.ID.String()+"&date=2025-07-15", nil))

	daySlots := availabilitySlots(t, parseResponse(w))
	for _, raw := range daySlots {
		s := raw.(map[string]interface{})
		if s["available"] != true {
			t.Errorf("cancelled appointment must not occupy slot %v", s["time"])
		}
	}
}

func TestGetAvailabilityOverrideWinsOverWeekly(t *testing.T) {
	db := freshDB()
	router := setupAvailabilityRouter(db, availabilityClock)

	barber, _ := seedBarber(db)
	seedWeeklySchedule(db, "09:00", "19:00")
	seedOverride(db, "2025-07-15", true, "10:00", "11:00")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/availability?barber_id="+barber.ID.String()+"&date=2025-07-15", nil))

	daySlots := availabilitySlots(t, parseResponse(w))
	if len(daySlots) != 2 {
		t.Fatalf("expected override window 10:00-11:00 to yield 2 slots, got %d", len(daySlots))
	}
	if daySlots[0].(map[string]interface{})["time"] != "10:00" {
		t.Errorf("expected first slot 10:00, got %v", daySlots[0])
	}
}

func TestGetAvailabilityClosedOverride(t *testing.T) {
	db := freshDB()
	router := setupAvailabilityRouter(db, availabilityClock)

	barber, _ := seedBarber(db)
	seedWeeklySchedule(db, "09:00", "19:00")
	seedOverride(db, "2025-07-15", false, "", "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/availability?barber_id="+barber.ID.String()+"&date=2025-07-15", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["open"] != false {
		t.Error("expected open=false for a closed override")
	}
	if len(availabilitySlots(t, resp)) != 0 {
		t.Error("expected no slots on a closed day")
	}
}

func TestGetAvailabilityNoScheduleMeansClosed(t *testing.T) {
	db := freshDB()
	router := setupAvailabilityRouter(db, availabilityClock)

	barber, _ := seedBarber(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/availability?barber_id="+barber.ID.String()+"&date=2025-07-15", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["open"] != false {
		t.Error("a weekday without a rule must read as closed")
	}
}

func TestGetAvailabilitySameDayCutoff(t *testing.T) {
	db := freshDB()
	router := setupAvailabilityRouter(db, fixedClock(time.Date(2025, 7, 15, 14, 32, 0, 0, time.UTC)))

	barber, _ := seedBarber(db)
	seedWeeklySchedule(db, "09:00", "19:00")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/availability?barber_id="+barber.ID.String()+"&date=2025-07-15", nil))

	daySlots := availabilitySlots(t, parseResponse(w))
	if len(daySlots) == 0 {
		t.Fatal("expected remaining slots after the cutoff")
	}
	first := daySlots[0].(map[string]interface{})
	if first["time"] != "15:00" {
		t.Errorf("expected first remaining slot 15:00 at 14:32, got %v", first["time"])
	}
}

func TestGetAvailabilityFutureDateIgnoresCutoff(t *testing.T) {
	db := freshDB()
	router := setupAvailabilityRouter(db, fixedClock(time.Date(2025, 7, 15, 14, 32, 0, 0, time.UTC)))

	barber, _ := seedBarber(db)
	seedWeeklySchedule(db, "09:00", "19:00")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/availability?barber_id="+barber.ID.String()+"&date=2025-07-16", nil))

	daySlots := availabilitySlots(t, parseResponse(w))
	if len(daySlots) != 20 {
		t.Fatalf("expected all 20 slots on a future date, got %d", len(daySlots))
	}
	if daySlots[0].(map[string]interface{})["time"] != "09:00" {
		t.Errorf("expected first slot 09:00, got %v", daySlots[0])
	}
}

func TestGetAvailabilityOvernightWindow(t *testing.T) {
	db := freshDB()
	router := setupAvailabilityRouter(db, availabilityClock)

	barber, _ := seedBarber(db)
	seedWeeklySchedule(db, "09:00", "19:00")
	seedOverride(db, "2025-07-15", true, "23:00", "02:00")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/availability?barber_id="+barber.ID.String()+"&date=2025-07-15", nil))

	daySlots := availabilitySlots(t, parseResponse(w))
	if len(daySlots) != 6 {
		t.Fatalf("expected 6 slots for 23:00-02:00 at 30m, got %d", len(daySlots))
	}
	labels := make([]string, len(daySlots))
	for i, s := range daySlots {
		labels[i] = s.(map[string]interface{})["time"].(string)
	}
	want := []string{"23:00", "23:30", "00:00", "00:30", "01:00", "01:30"}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("slot %d: expected %s, got %s", i, want[i], labels[i])
		}
	}
}

func TestGetAvailabilityOvernightOccupancyNextDay(t *testing.T) {
	db := freshDB()
	router := setupAvailabilityRouter(db, availabilityClock)

	barber, _ := seedBarber(db)
	client, _ := seedTestUser(db, "client-night@test.com", "client")
	seedWeeklySchedule(db, "09:00", "19:00")
	seedOverride(db, "2025-07-15", true, "23:00", "02:00")
	// Booked at 01:00 the following calendar day
	seedAppointment(db, client.ID, barber.ID,
		time.Date(2025, 7, 16, 1, 0, 0, 0, time.UTC), models.AppointmentStatusConfirmed)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/availability?barber_id="+barber.ID.String()+"&date=2025-07-15", nil))

	daySlots := availabilitySlots(t, parseResponse(w))
	for _, raw := range daySlots {
		s := raw.(map[string]interface{})
		wantAvailable := s["time"] != "01:00"
		if s["available"] != wantAvailable {
			t.Errorf("slot %v: expected available=%v, got %v", s["time"], wantAvailable, s["available"])
		}
	}
}

func TestGetAvailabilityUnknownBarber(t *testing.T) {
	db := freshDB()
	router := setupAvailabilityRouter(db, availabilityClock)

	seedWeeklySchedule(db, "09:00", "19:00")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/availability?barber_id="+uuid.New().String()+"&date=2025-07-15", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetAvailabilityBlockedBarberHidden(t *testing.T) {
	db := freshDB()
	router := setupAvailabilityRouter(db, availabilityClock)

	barber, _ := seedBarber(db)
	db.Model(&models.User{}).Where("id = ?", barber.ID).Update("is_blocked", true)
	seedWeeklySchedule(db, "09:00", "19:00")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/availability?barber_id="+barber.ID.String()+"&date=2025-07-15", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for blocked barber, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetAvailabilityInvalidParams(t *testing.T) {
	db := freshDB()
	router := setupAvailabilityRouter(db, availabilityClock)

	barber, _ := seedBarber(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/availability?barber_id=not-a-uuid&date=2025-07-15", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad barber_id, got %d: %s", w.Code, w.Body.String())
	}

	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, jsonRequest("GET", "/api/availability?barber_id="+barber.ID.String()+"&date=15/07/2025", nil))
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d: %s", w2.Code, w2.Body.String())
	}
}

func TestGetAvailabilityOccupancyReadFailure(t *testing.T) {
	db := freshDB()
	router := setupAvailabilityRouter(db, availabilityClock)

	barber, _ := seedBarber(db)
	seedWeeklySchedule(db, "09:00", "19:00")

	// Force the occupancy query to fail; the endpoint must error out rather
	// than answer with every slot free.
	db.Exec("ALTER TABLE appointments RENAME TO appointments_backup")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/availability?barber_id="+barber.ID.String()+"&date=2025-07-15", nil))

	db.Exec("ALTER TABLE appointments_backup RENAME TO appointments")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["slots"] != nil {
		t.Error("a failed occupancy read must not return slots")
	}
}
