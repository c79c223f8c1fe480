package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"barbearia-backend/models"
)

func TestPushSubscribeCreates(t *testing.T) {
	db := freshDB()
	router := setupPushRouter(db)

	barber, barberToken := seedBarber(db)

	body := map[string]string{"token": "device-token-abc"}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/barber/push-subscription", body, barberToken))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var sub models.PushSubscription
	if err := db.Where("barber_id = ?", barber.ID).First(&sub).Error; err != nil {
		t.Fatalf("subscription not stored: %v", err)
	}
	if sub.Token != "device-token-abc" {
		t.Errorf("expected token device-token-abc, got %s", sub.Token)
	}
}

func TestPushSubscribeReplacesToken(t *testing.T) {
	db := freshDB()
	router := setupPushRouter(db)

	barber, barberToken := seedBarber(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/barber/push-subscription",
		map[string]string{"token": "old-device"}, barberToken))
	if w.Code != http.StatusCreated {
		t.Fatalf("first subscribe failed: %d: %s", w.Code, w.Body.String())
	}

	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, authRequest("POST", "/api/barber/push-subscription",
		map[string]string{"token": "new-device"}, barberToken))
	if w2.Code != http.StatusOK {
		t.Fatalf("expected status 200 on re-subscribe, got %d: %s", w2.Code, w2.Body.String())
	}

	var count int64
	db.Model(&models.PushSubscription{}).Where("barber_id = ?", barber.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected a single subscription row, got %d", count)
	}

	var sub models.PushSubscription
	db.Where("barber_id = ?", barber.ID).First(&sub)
	if sub.Token != "new-device" {
		t.Errorf("expected replaced token new-device, got %s", sub.Token)
	}
}

func TestPushSubscribeRequiresToken(t *testing.T) {
	db := freshDB()
	router := setupPushRouter(db)

	_, barberToken := seedBarber(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/barber/push-subscription",
		map[string]string{}, barberToken))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPushSubscribeRequiresBarberRole(t *testing.T) {
	db := freshDB()
	router := setupPushRouter(db)

	_, clientToken := seedTestUser(db, "pushclient@test.com", "client")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/barber/push-subscription",
		map[string]string{"token": "nope"}, clientToken))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPushUnsubscribe(t *testing.T) {
	db := freshDB()
	router := setupPushRouter(db)

	barber, barberToken := seedBarber(db)
	db.Create(&models.PushSubscription{BarberID: barber.ID, Token: "to-remove"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("DELETE", "/api/barber/push-subscription", nil, barberToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&models.PushSubscription{}).Where("barber_id = ?", barber.ID).Count(&count)
	if count != 0 {
		t.Error("subscription was not removed")
	}
}
