// Command smoke exercises a running timetable-api deployment: liveness,
// readiness, login, and a scoped conflict report. Intended for post-deploy
// checks, not CI.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

type loginResponse struct {
	Data struct {
		AccessToken string `json:"access_token"`
	} `json:"data"`
}

type conflictResponse struct {
	Meta struct {
		Count int `json:"count"`
	} `json:"meta"`
}

func main() {
	var (
		base      string
		email     string
		password  string
		year      int
		trimester int
		timeout   time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&email, "email", os.Getenv("SMOKE_EMAIL"), "login email")
	flag.StringVar(&password, "password", os.Getenv("SMOKE_PASSWORD"), "login password")
	flag.IntVar(&year, "year", time.Now().Year(), "conflict report year")
	flag.IntVar(&trimester, "trimester", 1, "conflict report trimester")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}

	for _, path := range []string{"/health", "/ready"} {
		if err := expectOK(client, base+path); err != nil {
			log.Fatalf("%s failed: %v", path, err)
		}
		fmt.Printf("ok  %s\n", path)
	}

	if email == "" || password == "" {
		fmt.Println("skip authenticated checks (no credentials)")
		return
	}

	token, err := login(client, base, email, password)
	if err != nil {
		log.Fatalf("login failed: %v", err)
	}
	fmt.Println("ok  /api/v1/auth/login")

	count, err := conflictCount(client, base, token, year, trimester)
	if err != nil {
		log.Fatalf("conflict report failed: %v", err)
	}
	fmt.Printf("ok  /api/v1/conflicts (%d conflicts in %d/T%d)\n", count, year, trimester)
}

func expectOK(client *http.Client, url string) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

func login(client *http.Client, base, email, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}
	resp, err := client.Post(base+"/api/v1/auth/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	var body loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.Data.AccessToken == "" {
		return "", fmt.Errorf("empty access token")
	}
	return body.Data.AccessToken, nil
}

func conflictCount(client *http.Client, base, token string, year, trimester int) (int, error) {
	url := fmt.Sprintf("%s/api/v1/conflicts?year=%d&trimester=%d", base, year, trimester)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("status %d", resp.StatusCode)
	}

	var body conflictResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, err
	}
	return body.Meta.Count, nil
}
