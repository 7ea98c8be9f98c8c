package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dog-blood-donation/internal/ports/auth"
	"dog-blood-donation/internal/router"
)

type caller struct {
	userID   string
	role     auth.Role
	clinicID string
}

var (
	owner      = caller{userID: "owner-1", role: auth.RoleDogOwner}
	otherOwner = caller{userID: "owner-2", role: auth.RoleDogOwner}
	staff      = caller{userID: "staff-1", role: auth.RoleClinicStaff, clinicID: "clinic-1"}
	otherStaff = caller{userID: "staff-2", role: auth.RoleClinicStaff, clinicID: "clinic-2"}
)

func TestHTTP_EndToEnd_DonationFlow(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	// 1) Owner registra un perro donante apto (universal)
	dogID := createDog(t, ts.URL, owner, map[string]any{
		"name":          "Rocco",
		"breed":         "labrador",
		"sex":           "MALE",
		"date_of_birth": time.Now().AddDate(-3, 0, 0).Format("2006-01-02"),
		"weight_kg":     30,
		"blood_type":    "DEA_1_1_NEGATIVE",
	})

	// 2) Un dueño no puede crear pedidos
	{
		st, _ := doReq(t, ts.URL, "POST", "/requests", owner, map[string]any{
			"volume_ml":      250,
			"urgency":        "URGENT",
			"needed_by_date": time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
		})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 creating request as dog owner, got %d", st)
		}
	}

	// 3) Staff de clínica crea un pedido con tipo concreto
	requestID := createRequest(t, ts.URL, staff, map[string]any{
		"blood_type_needed": "DEA_3_POSITIVE",
		"volume_ml":         250,
		"urgency":           "URGENT",
		"patient_info":      "cirugía programada",
		"needed_by_date":    time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
	})

	// 4) El donante universal lo ve como match exacto (score 100)
	{
		st, body := doReq(t, ts.URL, "GET", "/requests/compatible?dog_id="+dogID, owner, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 browsing compatible, got %d body=%s", st, string(body))
		}
		var items []struct {
			ID                 string `json:"id"`
			CompatibilityScore int    `json:"compatibility_score"`
		}
		if err := json.Unmarshal(body, &items); err != nil {
			t.Fatalf("unmarshal compatible: %v body=%s", err, string(body))
		}
		if len(items) != 1 || items[0].ID != requestID {
			t.Fatalf("expected the new request in compatible list, got %s", string(body))
		}
		if items[0].CompatibilityScore != 100 {
			t.Fatalf("expected score 100 for universal donor, got %d", items[0].CompatibilityScore)
		}
	}

	// 5) Owner responde ACCEPTED
	responseID := respond(t, ts.URL, owner, requestID, map[string]any{
		"dog_id":           dogID,
		"status":           "ACCEPTED",
		"response_message": "puede el jueves",
	})

	// 6) Repetir la respuesta con el mismo perro => 409
	{
		st, _ := doReq(t, ts.URL, "POST", "/requests/"+requestID+"/respond", owner, map[string]any{
			"dog_id": dogID,
			"status": "ACCEPTED",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 on duplicate response, got %d", st)
		}
	}

	// 7) La clínica dueña lista respuestas; otra clínica no puede
	{
		st, body := doReq(t, ts.URL, "GET", "/requests/"+requestID+"/responses", staff, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing responses, got %d body=%s", st, string(body))
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/requests/"+requestID+"/responses", otherStaff, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 listing responses from another clinic, got %d", st)
		}
	}

	// 8) Otra clínica no puede completar la donación
	{
		st, _ := doReq(t, ts.URL, "POST", "/responses/"+responseID+"/complete", otherStaff, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 completing from another clinic, got %d", st)
		}
	}

	// 9) La clínica dueña completa
	{
		st, body := doReq(t, ts.URL, "POST", "/responses/"+responseID+"/complete", staff, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 completing donation, got %d body=%s", st, string(body))
		}
		var resp struct {
			Status string `json:"status"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Status != "COMPLETED" {
			t.Fatalf("expected COMPLETED, got %s", resp.Status)
		}
	}

	// 10) Completar dos veces => 400 (ya no está ACCEPTED)
	{
		st, _ := doReq(t, ts.URL, "POST", "/responses/"+responseID+"/complete", staff, nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 on second complete, got %d", st)
		}
	}

	// 11) La donación reciente deja al perro no apto
	{
		st, body := doReq(t, ts.URL, "GET", "/dogs/"+dogID+"/eligibility", owner, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 eligibility, got %d body=%s", st, string(body))
		}
		var ev struct {
			Eligible bool     `json:"eligible"`
			Reasons  []string `json:"reasons"`
		}
		_ = json.Unmarshal(body, &ev)
		if ev.Eligible || len(ev.Reasons) == 0 {
			t.Fatalf("expected ineligible after donation, got %s", string(body))
		}
	}

	// 12) El browse de compatibles ahora rechaza al perro (400 con razones)
	{
		st, _ := doReq(t, ts.URL, "GET", "/requests/compatible?dog_id="+dogID, owner, nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 browsing with ineligible dog, got %d", st)
		}
	}

	// 13) La clínica marca el pedido como cubierto y deja de aceptar respuestas
	{
		st, body := doReq(t, ts.URL, "POST", "/requests/"+requestID+"/fulfill", staff, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 fulfilling request, got %d body=%s", st, string(body))
		}
	}
	{
		dog2 := createDog(t, ts.URL, otherOwner, map[string]any{
			"name":          "Luna",
			"sex":           "FEMALE",
			"date_of_birth": time.Now().AddDate(-2, 0, 0).Format("2006-01-02"),
			"weight_kg":     28,
			"blood_type":    "DEA_3_POSITIVE",
		})
		st, _ := doReq(t, ts.URL, "POST", "/requests/"+requestID+"/respond", otherOwner, map[string]any{
			"dog_id": dog2,
			"status": "ACCEPTED",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 responding to fulfilled request, got %d", st)
		}
	}
}

func TestHTTP_Respond_IneligibleDog_ReturnsReasons(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	// perro con bajo peso
	dogID := createDog(t, ts.URL, owner, map[string]any{
		"name":          "Chiquito",
		"sex":           "MALE",
		"date_of_birth": time.Now().AddDate(-2, 0, 0).Format("2006-01-02"),
		"weight_kg":     12,
	})

	requestID := createRequest(t, ts.URL, staff, map[string]any{
		"volume_ml":      100,
		"urgency":        "ROUTINE",
		"needed_by_date": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
	})

	st, body := doReq(t, ts.URL, "POST", "/requests/"+requestID+"/respond", owner, map[string]any{
		"dog_id": dogID,
		"status": "ACCEPTED",
	})
	if st != http.StatusForbidden {
		t.Fatalf("expected 403 for ineligible dog, got %d body=%s", st, string(body))
	}

	var resp struct {
		Error   string   `json:"error"`
		Reasons []string `json:"reasons"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal eligibility error: %v body=%s", err, string(body))
	}
	if len(resp.Reasons) == 0 {
		t.Fatalf("expected machine-readable reasons, got %s", string(body))
	}

	// DECLINED con el mismo perro sí pasa (no evalúa aptitud)
	st, body = doReq(t, ts.URL, "POST", "/requests/"+requestID+"/respond", owner, map[string]any{
		"dog_id": dogID,
		"status": "DECLINED",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 declining with ineligible dog, got %d body=%s", st, string(body))
	}
}

func TestHTTP_CreateRequest_ValidationErrors(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	// volumen fuera de rango => 400
	st, _ := doReq(t, ts.URL, "POST", "/requests", staff, map[string]any{
		"volume_ml":      30,
		"urgency":        "URGENT",
		"needed_by_date": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for volume below minimum, got %d", st)
	}

	// deadline en el pasado => 400
	st, _ = doReq(t, ts.URL, "POST", "/requests", staff, map[string]any{
		"volume_ml":      250,
		"urgency":        "URGENT",
		"needed_by_date": time.Now().Add(-time.Hour).UTC().Format(time.RFC3339),
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for past deadline, got %d", st)
	}
}

func TestHTTP_CancelledRequest_RejectsMutations(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	requestID := createRequest(t, ts.URL, staff, map[string]any{
		"volume_ml":      250,
		"urgency":        "CRITICAL",
		"needed_by_date": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
	})

	st, _ := doReq(t, ts.URL, "POST", "/requests/"+requestID+"/cancel", staff, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 cancelling, got %d", st)
	}

	// update sobre cancelado => 422
	st, _ = doReq(t, ts.URL, "PUT", "/requests/"+requestID, staff, map[string]any{
		"volume_ml": 300,
	})
	if st != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 updating cancelled request, got %d", st)
	}

	// cancelar dos veces => 422
	st, _ = doReq(t, ts.URL, "POST", "/requests/"+requestID+"/cancel", staff, nil)
	if st != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 on second cancel, got %d", st)
	}
}

func createDog(t *testing.T, baseURL string, c caller, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/dogs", c, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create dog, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create dog: missing id body=%s", string(body))
	}
	return resp.ID
}

func createRequest(t *testing.T, baseURL string, c caller, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/requests", c, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create request, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create request: missing id body=%s", string(body))
	}
	return resp.ID
}

func respond(t *testing.T, baseURL string, c caller, requestID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/requests/"+requestID+"/respond", c, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 respond, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("respond: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path string, c caller, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != "" {
		req.Header.Set("X-Debug-User-ID", c.userID)
		req.Header.Set("X-Debug-Role", string(c.role))
		if c.clinicID != "" {
			req.Header.Set("X-Debug-Clinic-ID", c.clinicID)
		}
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
