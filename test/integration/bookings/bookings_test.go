package bookings

import (
	"fmt"
	"sync"
	"testing"

	"roombook/pkg/model"
	"roombook/test/integration/testutil"
)

func setupRoom(t *testing.T, admin *testutil.Client, name string) string {
	t.Helper()
	resp := admin.POST(t, "/api/v1/rooms", testutil.NewRoomBuilder().WithName(name).Build())
	testutil.AssertStatusCode(t, resp, 201)
	var result struct {
		Data model.Room `json:"data"`
	}
	if err := resp.DecodeJSON(&result); err != nil {
		t.Fatalf("failed to decode room: %v", err)
	}
	return result.Data.ID
}

func decodeBooking(t *testing.T, resp *testutil.Response) *model.Booking {
	t.Helper()
	var result struct {
		Data model.Booking `json:"data"`
	}
	if err := resp.DecodeJSON(&result); err != nil {
		t.Fatalf("failed to decode booking: %v. Body: %s", err, string(resp.Body))
	}
	return &result.Data
}

func TestBookingAdmission(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	admin := client.As(testutil.AdminID, testutil.RoleAdmin)
	employee := client.As(testutil.EmployeeID, testutil.RoleEmployee)
	roomID := setupRoom(t, admin, "Admission Room")
	date := testutil.FutureDate()

	// First booking lands.
	resp := employee.POST(t, "/api/v1/bookings", testutil.BookingPayload(roomID, date, "09:00", "10:00"))
	testutil.AssertStatusCode(t, resp, 201)
	created := decodeBooking(t, resp)
	if created.OwnerID != testutil.EmployeeID {
		t.Errorf("expected owner forced to requester, got %s", created.OwnerID)
	}

	// Overlap is rejected with a conflict naming the blocking slot.
	resp = employee.POST(t, "/api/v1/bookings", testutil.BookingPayload(roomID, date, "09:30", "10:30"))
	testutil.AssertStatusCode(t, resp, 409)
	testutil.AssertContains(t, resp, "09:00")

	// Back-to-back is not an overlap.
	resp = employee.POST(t, "/api/v1/bookings", testutil.BookingPayload(roomID, date, "10:00", "11:00"))
	testutil.AssertStatusCode(t, resp, 201)

	// Outside operating hours.
	resp = employee.POST(t, "/api/v1/bookings", testutil.BookingPayload(roomID, date, "06:00", "07:00"))
	testutil.AssertStatusCode(t, resp, 422)

	// Unknown room.
	resp = employee.POST(t, "/api/v1/bookings", testutil.BookingPayload("64f1a2b3c4d5e6f7a8b9c0ee", date, "12:00", "13:00"))
	testutil.AssertStatusCode(t, resp, 404)

	// No leftover admission locks once requests settle.
	if locks := mongo.CountDocuments(t, testutil.RoomLocksCollection); locks != 0 {
		t.Errorf("expected no leftover room locks, found %d", locks)
	}
}

func TestConcurrentAdmissions(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	admin := client.As(testutil.AdminID, testutil.RoleAdmin)
	roomID := setupRoom(t, admin, "Contended Room")
	date := testutil.FutureDate()

	requesters := []string{testutil.EmployeeID, testutil.OtherID}
	statuses := make([]int, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for i, id := range requesters {
		go func(i int, id string) {
			defer wg.Done()
			c := client.As(id, testutil.RoleEmployee)
			resp := c.POST(t, "/api/v1/bookings", testutil.BookingPayload(roomID, date, "14:00", "15:00"))
			statuses[i] = resp.StatusCode
		}(i, id)
	}
	wg.Wait()

	var successes, conflicts int
	for _, status := range statuses {
		switch status {
		case 201:
			successes++
		case 409:
			conflicts++
		default:
			t.Errorf("unexpected status %d for concurrent admission", status)
		}
	}
	if successes != 1 || conflicts != 1 {
		t.Errorf("expected one success and one conflict, got %d/%d", successes, conflicts)
	}

	if count := mongo.CountDocuments(t, testutil.BookingsCollection); count != 1 {
		t.Errorf("expected exactly one stored booking, got %d", count)
	}
}

func TestCancellationOwnership(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	admin := client.As(testutil.AdminID, testutil.RoleAdmin)
	owner := client.As(testutil.EmployeeID, testutil.RoleEmployee)
	stranger := client.As(testutil.OtherID, testutil.RoleEmployee)
	roomID := setupRoom(t, admin, "Cancel Room")
	date := testutil.FutureDate()

	resp := owner.POST(t, "/api/v1/bookings", testutil.BookingPayload(roomID, date, "09:00", "10:00"))
	testutil.AssertStatusCode(t, resp, 201)
	created := decodeBooking(t, resp)
	path := fmt.Sprintf("/api/v1/bookings/id/%s", created.ID)

	// A stranger gets the same opaque answer whether or not it exists.
	resp = stranger.DELETE(t, path)
	testutil.AssertStatusCode(t, resp, 403)
	resp = stranger.GET(t, path)
	testutil.AssertStatusCode(t, resp, 403)

	// Owner cancels and the slot frees up.
	resp = owner.DELETE(t, path)
	testutil.AssertStatusCode(t, resp, 204)
	resp = stranger.POST(t, "/api/v1/bookings", testutil.BookingPayload(roomID, date, "09:00", "10:00"))
	testutil.AssertStatusCode(t, resp, 201)

	// Admin can cancel anyone's booking.
	created = decodeBooking(t, resp)
	resp = admin.DELETE(t, fmt.Sprintf("/api/v1/bookings/id/%s", created.ID))
	testutil.AssertStatusCode(t, resp, 204)
}

func TestShortenEndTime(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	admin := client.As(testutil.AdminID, testutil.RoleAdmin)
	owner := client.As(testutil.EmployeeID, testutil.RoleEmployee)
	roomID := setupRoom(t, admin, "Shorten Room")
	date := testutil.FutureDate()

	resp := owner.POST(t, "/api/v1/bookings", testutil.BookingPayload(roomID, date, "09:00", "11:00"))
	testutil.AssertStatusCode(t, resp, 201)
	created := decodeBooking(t, resp)
	path := fmt.Sprintf("/api/v1/bookings/id/%s", created.ID)

	// Only admins may shorten.
	resp = owner.PATCH(t, path, map[string]any{"end_time": "10:00"})
	testutil.AssertStatusCode(t, resp, 403)

	// Extending is not an update the API offers.
	resp = admin.PATCH(t, path, map[string]any{"end_time": "12:00"})
	testutil.AssertStatusCode(t, resp, 422)

	resp = admin.PATCH(t, path, map[string]any{"end_time": "10:00"})
	testutil.AssertStatusCode(t, resp, 204)

	// The freed slot is bookable again.
	resp = owner.POST(t, "/api/v1/bookings", testutil.BookingPayload(roomID, date, "10:00", "11:00"))
	testutil.AssertStatusCode(t, resp, 201)
}

func TestMyBookingsListing(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	admin := client.As(testutil.AdminID, testutil.RoleAdmin)
	owner := client.As(testutil.EmployeeID, testutil.RoleEmployee)
	other := client.As(testutil.OtherID, testutil.RoleEmployee)
	roomID := setupRoom(t, admin, "Listing Room")
	date := testutil.FutureDate()

	testutil.AssertStatusCode(t, owner.POST(t, "/api/v1/bookings", testutil.BookingPayload(roomID, date, "09:00", "10:00")), 201)
	testutil.AssertStatusCode(t, other.POST(t, "/api/v1/bookings", testutil.BookingPayload(roomID, date, "10:00", "11:00")), 201)

	resp := owner.GET(t, "/api/v1/bookings/my")
	testutil.AssertStatusCode(t, resp, 200)
	var mine struct {
		Data       []model.BookingDetail `json:"data"`
		TotalCount int64                 `json:"total_count"`
	}
	if err := resp.DecodeJSON(&mine); err != nil {
		t.Fatalf("failed to decode listing: %v", err)
	}
	if mine.TotalCount != 1 || len(mine.Data) != 1 {
		t.Fatalf("expected exactly my booking, got total=%d len=%d", mine.TotalCount, len(mine.Data))
	}
	if mine.Data[0].OwnerID != testutil.EmployeeID {
		t.Errorf("expected own booking only, got owner %s", mine.Data[0].OwnerID)
	}
	if mine.Data[0].RoomName != "Listing Room" {
		t.Errorf("expected joined room name, got %q", mine.Data[0].RoomName)
	}

	// The full listing is admin-only.
	resp = owner.GET(t, "/api/v1/bookings")
	testutil.AssertStatusCode(t, resp, 403)
	resp = admin.GET(t, "/api/v1/bookings")
	testutil.AssertStatusCode(t, resp, 200)
}
