package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// BlowerRequest is the payload sent to the equipment API.
type BlowerRequest struct {
	Tag          string  `json:"tag"`
	Area         string  `json:"area"`
	Type         string  `json:"type"`
	Floor        int     `json:"floor"`
	HeightMeters float64 `json:"height_meters"`
	Description  string  `json:"description"`
}

// ServiceDates is the payload for setting service dates on a unit.
type ServiceDates struct {
	LastDone string `json:"last_done"`
	NextDue  string `json:"next_due"`
}

var areas = []string{
	"Caldeira Norte",
	"Caldeira Sul",
	"Superaquecedor",
	"Economizador",
	"Pré-aquecedor de Ar",
}

var blowerTypes = []string{"Rotativo", "Retrátil"}

// serviceTypeIDs mirrors the default catalog; the seeder sets dates only
// for the short-interval types so freshly seeded fleets show a mix of
// statuses right away.
var serviceTypeIDs = map[string]int{
	"lubrication":        30,
	"nozzle_inspection":  90,
	"limit_switch_check": 90,
}

var authToken string

func authorizedRequest(method, url, contentType string, body *bytes.Buffer) (*http.Response, error) {
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func login(apiURL, username, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	resp, err := http.Post(apiURL+"/auth/login", "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed with status: %d", resp.StatusCode)
	}
	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}
	return result.Token, nil
}

func randomBlower(index int) BlowerRequest {
	area := areas[rand.Intn(len(areas))]
	btype := blowerTypes[rand.Intn(len(blowerTypes))]
	return BlowerRequest{
		Tag:          fmt.Sprintf("SPD-%d", 100+index),
		Area:         area,
		Type:         btype,
		Floor:        1 + rand.Intn(6),
		HeightMeters: 2 + rand.Float64()*28,
		Description:  fmt.Sprintf("Soprador %s, %s", btype, area),
	}
}

func createBlower(apiURL string, blower BlowerRequest) error {
	data, err := json.Marshal(blower)
	if err != nil {
		return fmt.Errorf("failed to marshal blower: %w", err)
	}
	resp, err := authorizedRequest(http.MethodPost, apiURL+"/equipment", "application/json", bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("failed to create blower: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusConflict {
		log.WithField("tag", blower.Tag).Warn("Blower already exists, skipping")
		return nil
	}
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("blower creation failed with status: %d", resp.StatusCode)
	}
	log.WithFields(log.Fields{
		"tag":  blower.Tag,
		"area": blower.Area,
		"type": blower.Type,
	}).Info("Created blower")
	return nil
}

// seedDates backdates a random subset of service records so the fleet
// starts with overdue, critical and healthy units instead of all pending.
func seedDates(apiURL, tag string) {
	for typeID, interval := range serviceTypeIDs {
		if rand.Intn(3) == 0 {
			continue
		}
		// anywhere from freshly serviced to 20 days past due
		ago := rand.Intn(interval + 20)
		lastDone := time.Now().AddDate(0, 0, -ago)
		nextDue := lastDone.AddDate(0, 0, interval)

		dates := ServiceDates{
			LastDone: lastDone.Format("2006-01-02"),
			NextDue:  nextDue.Format("2006-01-02"),
		}
		data, err := json.Marshal(dates)
		if err != nil {
			log.WithError(err).Error("Failed to marshal service dates")
			continue
		}
		url := fmt.Sprintf("%s/equipment/%s/services/%s", apiURL, tag, typeID)
		resp, err := authorizedRequest(http.MethodPut, url, "application/json", bytes.NewBuffer(data))
		if err != nil {
			log.WithError(err).WithField("tag", tag).Error("Failed to set service dates")
			continue
		}
		resp.Body.Close()
		log.WithFields(log.Fields{
			"tag":     tag,
			"service": typeID,
			"status":  resp.Status,
		}).Info("Set service dates")
	}
}

func main() {
	fleetSize := 20
	if val := os.Getenv("FLEET_SIZE"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			fleetSize = n
		}
	}

	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	authToken = os.Getenv("SEED_AUTH_TOKEN")
	if authToken == "" {
		username := os.Getenv("SEED_USERNAME")
		password := os.Getenv("SEED_PASSWORD")
		if username != "" && password != "" {
			token, err := login(apiURL, username, password)
			if err != nil {
				log.WithError(err).Fatal("Login failed")
			}
			authToken = token
			log.WithField("username", username).Info("Logged in")
		}
	}

	log.WithFields(log.Fields{
		"fleet_size": fleetSize,
		"api_url":    apiURL,
	}).Info("Starting fleet seed")

	created := 0
	for i := 1; i <= fleetSize; i++ {
		blower := randomBlower(i)
		if err := createBlower(apiURL, blower); err != nil {
			log.WithError(err).Error("Failed to create blower")
			continue
		}
		seedDates(apiURL, blower.Tag)
		created++
	}

	log.WithField("created_blowers", created).Info("Fleet seed completed")
	if created == 0 {
		log.Error("No blowers created. Ensure SEED_AUTH_TOKEN or SEED_USERNAME/SEED_PASSWORD are valid and the API is reachable.")
		os.Exit(1)
	}
}
