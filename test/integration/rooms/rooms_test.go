package rooms

import (
	"fmt"
	"testing"

	"roombook/pkg/model"
	"roombook/test/integration/testutil"
)

func TestRoomLifecycle(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	admin := client.As(testutil.AdminID, testutil.RoleAdmin)
	employee := client.As(testutil.EmployeeID, testutil.RoleEmployee)

	// Non-admins cannot manage the room directory.
	resp := employee.POST(t, "/api/v1/rooms", testutil.NewRoomBuilder().Build())
	testutil.AssertStatusCode(t, resp, 403)

	// Admin registers a room.
	resp = admin.POST(t, "/api/v1/rooms", testutil.NewRoomBuilder().WithName("Atlantis").Build())
	testutil.AssertStatusCode(t, resp, 201)
	created := decodeRoom(t, resp)
	if created.ID == "" {
		t.Fatal("expected room ID to be set")
	}

	// Duplicate names are rejected, including case and spacing variants.
	resp = admin.POST(t, "/api/v1/rooms", testutil.NewRoomBuilder().WithName("  atlantis ").Build())
	testutil.AssertStatusCode(t, resp, 409)

	// Everyone can read the directory.
	resp = employee.GET(t, fmt.Sprintf("/api/v1/rooms/id/%s", created.ID))
	testutil.AssertStatusCode(t, resp, 200)
	fetched := decodeRoom(t, resp)
	if fetched.Name != "Atlantis" {
		t.Errorf("expected name Atlantis, got %q", fetched.Name)
	}

	// Partial update keeps untouched fields.
	resp = admin.PATCH(t, fmt.Sprintf("/api/v1/rooms/id/%s", created.ID), map[string]any{"capacity": 20})
	testutil.AssertStatusCode(t, resp, 204)

	resp = admin.GET(t, fmt.Sprintf("/api/v1/rooms/id/%s", created.ID))
	updated := decodeRoom(t, resp)
	if updated.Capacity != 20 {
		t.Errorf("expected capacity 20, got %d", updated.Capacity)
	}
	if updated.OpenTime != "08:00" || updated.CloseTime != "20:00" {
		t.Errorf("expected hours untouched, got %s-%s", updated.OpenTime, updated.CloseTime)
	}

	resp = admin.DELETE(t, fmt.Sprintf("/api/v1/rooms/id/%s", created.ID))
	testutil.AssertStatusCode(t, resp, 204)

	resp = admin.GET(t, fmt.Sprintf("/api/v1/rooms/id/%s", created.ID))
	testutil.AssertStatusCode(t, resp, 404)
}

func TestRoomValidation(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	admin := client.As(testutil.AdminID, testutil.RoleAdmin)

	tests := []struct {
		name    string
		payload map[string]any
	}{
		{"inverted hours", testutil.NewRoomBuilder().WithHours("20:00", "08:00").Build()},
		{"bad time format", testutil.NewRoomBuilder().WithHours("8am", "20:00").Build()},
		{"zero capacity", testutil.NewRoomBuilder().WithCapacity(0).Build()},
		{"name too short", testutil.NewRoomBuilder().WithName("A").Build()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := admin.POST(t, "/api/v1/rooms", tt.payload)
			testutil.AssertStatusCode(t, resp, 422)
		})
	}
}

func TestRoomRequiresIdentity(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	// No identity headers at all.
	resp := client.GET(t, "/api/v1/rooms")
	testutil.AssertStatusCode(t, resp, 401)
}

func decodeRoom(t *testing.T, resp *testutil.Response) *model.Room {
	t.Helper()
	var result struct {
		Data model.Room `json:"data"`
	}
	if err := resp.DecodeJSON(&result); err != nil {
		t.Fatalf("failed to decode room: %v. Body: %s", err, string(resp.Body))
	}
	return &result.Data
}
