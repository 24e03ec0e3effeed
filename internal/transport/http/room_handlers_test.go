package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jparr721/boysdotapp/internal/store"
)

func TestCreateAndListRoomsREST(t *testing.T) {
	ts, _ := startTestServer(t)

	resp, err := ts.Client().Post(ts.URL+"/api/rooms", "application/json", nil)
	if err != nil {
		t.Fatalf("create room request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	var created RoomResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if len(created.Room) != 8 {
		t.Fatalf("expected 8-char room id, got %q", created.Room)
	}

	listResp, err := ts.Client().Get(ts.URL + "/api/rooms")
	if err != nil {
		t.Fatalf("list rooms request: %v", err)
	}
	defer listResp.Body.Close()

	var listed RoomListResponse
	if err := json.NewDecoder(listResp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(listed.Rooms) != 1 || listed.Rooms[0] != created.Room {
		t.Fatalf("expected [%s], got %v", created.Room, listed.Rooms)
	}
}

func TestListMessagesREST(t *testing.T) {
	ts, st := startTestServer(t)
	ctx := context.Background()

	seed := []*store.Message{
		{ID: "m1", RoomID: "r1", Text: "hi", Sender: "alice", Timestamp: 100},
		{ID: "m2", RoomID: "r1", Text: "yo", Sender: "bob", Timestamp: 200},
	}
	for _, msg := range seed {
		if err := st.AppendMessage(ctx, msg); err != nil {
			t.Fatalf("seed message: %v", err)
		}
	}

	resp, err := ts.Client().Get(ts.URL + "/api/rooms/r1/messages")
	if err != nil {
		t.Fatalf("list messages request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	var messages []MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&messages); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(messages) != 2 || messages[0].ID != "m1" || messages[1].ID != "m2" {
		t.Fatalf("unexpected messages: %+v", messages)
	}
	if messages[0].Sender != "alice" || messages[0].TS != 100 {
		t.Fatalf("fields not mapped: %+v", messages[0])
	}
}

func TestListMessagesRESTEmptyRoom(t *testing.T) {
	ts, _ := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/api/rooms/ghost/messages")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	var messages []MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&messages); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(messages) != 0 {
		t.Fatalf("expected empty list, got %+v", messages)
	}
}
