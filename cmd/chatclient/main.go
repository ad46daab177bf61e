// Command main is a terminal client for the group chat endpoint. It logs in,
// fetches a single-use WebSocket ticket and bridges stdin to the group's
// chat stream. Useful for poking at the wire protocol without a browser.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

type chatEvent struct {
	Type     string          `json:"type"`
	Group    string          `json:"group"`
	Username string          `json:"username"`
	Message  string          `json:"message"`
	Payload  json.RawMessage `json:"payload"`
}

type historyEntry struct {
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func main() {
	host := flag.String("host", "localhost:8375", "API server host")
	email := flag.String("email", "admin@example.com", "User email")
	password := flag.String("password", "", "User password")
	group := flag.String("group", "", "Group slug to join")
	flag.Parse()

	if *group == "" {
		log.Fatal("-group is required")
	}
	if *password == "" {
		log.Fatal("-password is required")
	}

	token, username, err := login(*host, *email, *password)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	log.Printf("Logged in as %s", username)

	ticket, err := getTicket(*host, token)
	if err != nil {
		log.Fatalf("Ticket issuance failed: %v", err)
	}

	wsURL := url.URL{
		Scheme:   "ws",
		Host:     *host,
		Path:     fmt.Sprintf("/api/ws/chat/%s", *group),
		RawQuery: "ticket=" + url.QueryEscape(ticket),
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		log.Fatalf("WebSocket dial failed: %v", err)
	}
	defer func() { _ = conn.Close() }()
	log.Printf("Joined #%s. Type to chat, Ctrl-C to leave.", *group)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				log.Printf("Connection closed: %v", err)
				return
			}
			printEvent(raw)
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if text := strings.TrimSpace(scanner.Text()); text != "" {
				lines <- text
			}
		}
		close(lines)
	}()

	for {
		select {
		case <-done:
			return
		case <-interrupt:
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		case text, ok := <-lines:
			if !ok {
				return
			}
			outbound, _ := json.Marshal(map[string]string{
				"message":  text,
				"username": username,
				"group":    *group,
			})
			if err := conn.WriteMessage(websocket.TextMessage, outbound); err != nil {
				log.Printf("Send failed: %v", err)
				return
			}
		}
	}
}

func printEvent(raw []byte) {
	var event chatEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		fmt.Printf("?? %s\n", raw)
		return
	}

	switch event.Type {
	case "history":
		var entries []historyEntry
		if err := json.Unmarshal(event.Payload, &entries); err != nil {
			return
		}
		for _, e := range entries {
			fmt.Printf("[%s] %s: %s\n", e.CreatedAt.Format("15:04"), e.Username, e.Message)
		}
		fmt.Println("--- you are caught up ---")
	case "message":
		fmt.Printf("%s: %s\n", event.Username, event.Message)
	case "messages_dropped":
		fmt.Println("!! some messages were dropped, history may have gaps")
	case "server_shutdown":
		fmt.Println("!! server is shutting down")
	case "error":
		fmt.Printf("!! %s\n", event.Payload)
	default:
		fmt.Printf("?? %s\n", raw)
	}
}

func login(host, email, password string) (token, username string, err error) {
	payload, _ := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	resp, err := http.Post(fmt.Sprintf("http://%s/api/auth/login", host),
		"application/json", bytes.NewReader(payload))
	if err != nil {
		return "", "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("login failed with status %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", "", err
	}
	return result.Token, result.User.Username, nil
}

func getTicket(host, token string) (string, error) {
	req, err := http.NewRequest(http.MethodPost,
		fmt.Sprintf("http://%s/api/ws/ticket", host), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ticket issuance failed with status %d", resp.StatusCode)
	}

	var result struct {
		Ticket string `json:"ticket"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.Ticket, nil
}
