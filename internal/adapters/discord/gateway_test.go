package discord

import (
	"errors"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/minbot/dashboard/internal/domain"
)

func TestUpstreamKeepsRESTStatus(t *testing.T) {
	restErr := &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusForbidden},
		Message:  &discordgo.APIErrorMessage{Code: 50013, Message: "Missing Permissions"},
	}

	err := upstream(restErr)
	var up *domain.UpstreamError
	if !errors.As(err, &up) {
		t.Fatalf("expected upstream error, got %T", err)
	}
	if up.Status != http.StatusForbidden || up.Message != "Missing Permissions" {
		t.Fatalf("unexpected mapping: %+v", up)
	}
	if !errors.Is(err, restErr) {
		t.Fatalf("expected the REST error to stay wrapped")
	}
}

func TestUpstreamNonRESTErrorIsBadGateway(t *testing.T) {
	err := upstream(errors.New("dial tcp: timeout"))
	var up *domain.UpstreamError
	if !errors.As(err, &up) || up.Status != http.StatusBadGateway {
		t.Fatalf("expected 502 upstream error, got %v", err)
	}
	if upstream(nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}

func TestNewRejectsEmptyToken(t *testing.T) {
	if _, err := New("  "); err == nil {
		t.Fatalf("expected error for empty token")
	}
	g, err := New("Bot abc.def")
	if err != nil || g.session.Token != "Bot abc.def" {
		t.Fatalf("unexpected session: %v", err)
	}
}
