package http

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestLiveResultFeed(t *testing.T) {
	env := newTestEnv(t)
	teacherToken, teacherID := env.signup(t, "Tess", "teacher")
	studentToken, _ := env.signup(t, "Stu", "student")
	quiz := env.createQuiz(t, teacherToken)

	u := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/api/results/teacher/live?access_token=" + teacherToken
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	msgType, payload := readNext(conn, t)
	if msgType != "subscribed" || payload["teacherId"] != teacherID {
		t.Fatalf("expected subscribed for %s, got %s %v", teacherID, msgType, payload)
	}

	env.doJSON(t, http.MethodPost, "/api/quizzes/"+quiz.ID, studentToken,
		`{"answers":[{"questionId":"q1","answerIndex":3},{"questionId":"q2","answerIndex":1}]}`, http.StatusCreated, nil)

	msgType, payload = readNext(conn, t)
	if msgType != "result" {
		t.Fatalf("expected result, got %s", msgType)
	}
	if payload["score"] != float64(50) {
		t.Fatalf("expected score 50, got %v", payload["score"])
	}
	student, _ := payload["student"].(map[string]any)
	if student["name"] != "Stu" {
		t.Fatalf("expected populated student, got %v", payload["student"])
	}

	if err := conn.WriteJSON(map[string]string{"type": "ping"}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	if msgType, _ = readNext(conn, t); msgType != "pong" {
		t.Fatalf("expected pong, got %s", msgType)
	}

	if err := conn.WriteJSON(map[string]string{"type": "answer"}); err != nil {
		t.Fatalf("write unknown: %v", err)
	}
	if msgType, payload = readNext(conn, t); msgType != "error" || payload["message"] != "unsupported message type" {
		t.Fatalf("expected error message, got %s %v", msgType, payload)
	}
}

func TestLiveFeedRequiresTeacher(t *testing.T) {
	env := newTestEnv(t)
	studentToken, _ := env.signup(t, "Stu", "student")
	base := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/api/results/teacher/live"

	cases := []struct {
		name   string
		url    string
		status int
	}{
		{"no token", base, http.StatusUnauthorized},
		{"student token", base + "?access_token=" + studentToken, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conn, resp, err := websocket.DefaultDialer.Dial(tc.url, nil)
			if err == nil {
				conn.Close()
				t.Fatalf("expected handshake failure")
			}
			if resp == nil || resp.StatusCode != tc.status {
				t.Fatalf("expected status %d, got %+v", tc.status, resp)
			}
		})
	}
}

func readNext(conn *websocket.Conn, t *testing.T) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg.Type, msg.Payload
}
