package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/harentsoaR/healthcare-api/internal/models"
)

const textbeltURL = "https://textbelt.com/text"

// Notifier tells patients about their appointments. Implementations must not block.
type Notifier interface {
	AppointmentBooked(patient, doctor *models.User, apt *models.Appointment)
	AppointmentStatusChanged(patient, doctor *models.User, apt *models.Appointment)
}

// NotificationService sends SMS through Textbelt when an API key is configured
// and otherwise only logs what it would have sent.
type NotificationService struct {
	apiKey   string
	endpoint string
	client   *http.Client
	log      zerolog.Logger
}

func NewNotificationService(apiKey string, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		apiKey:   apiKey,
		endpoint: textbeltURL,
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      log.With().Str("component", "notifications").Logger(),
	}
}

func (s *NotificationService) AppointmentBooked(patient, doctor *models.User, apt *models.Appointment) {
	body := fmt.Sprintf("Appointment requested with Dr. %s on %s. Status: %s.",
		doctor.FullName(), apt.Date.Format("Jan 2 at 3:04 PM"), apt.Status)
	s.send(patient, apt, body)
}

func (s *NotificationService) AppointmentStatusChanged(patient, doctor *models.User, apt *models.Appointment) {
	body := fmt.Sprintf("Your appointment with Dr. %s on %s was %s.",
		doctor.FullName(), apt.Date.Format("Jan 2 at 3:04 PM"), apt.Status)
	s.send(patient, apt, body)
}

func (s *NotificationService) send(patient *models.User, apt *models.Appointment, body string) {
	evt := s.log.Info().
		Str("appointment_id", apt.ID.Hex()).
		Str("patient_id", patient.ID.Hex()).
		Str("status", string(apt.Status))

	if patient.Phone == "" {
		evt.Msg("sms skipped: patient has no phone number")
		return
	}
	if s.apiKey == "" {
		evt.Msg("sms disabled: notification logged only")
		return
	}

	// Send in a goroutine so it doesn't block the API response.
	go s.sendSMS(patient.Phone, body)
}

func (s *NotificationService) sendSMS(phone, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	payload, err := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     s.apiKey,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("encode sms payload")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		s.log.Error().Err(err).Msg("build sms request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error().Err(err).Msg("send sms request")
		return
	}
	defer resp.Body.Close()

	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		s.log.Error().Err(err).Int("status", resp.StatusCode).Msg("decode sms response")
		return
	}
	if !result.Success {
		s.log.Warn().Str("reason", result.Error).Msg("textbelt rejected sms")
		return
	}
	s.log.Info().Msg("sms sent")
}
