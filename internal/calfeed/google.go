package calfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleSource reads events from one Google calendar.
type GoogleSource struct {
	srv          *calendar.Service
	calendarID   string
	calendarName string
}

// NewGoogleSource builds an authenticated source from an OAuth client
// secrets file and a previously stored token file. There is no interactive
// flow here: a missing token is an error telling the user to authorize
// out of band.
func NewGoogleSource(ctx context.Context, credentialsFile, tokenFile, calendarName string) (*GoogleSource, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", credentialsFile, err)
	}
	config, err := google.ConfigFromJSON(b, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("no OAuth token at %s; authorize first: %w", tokenFile, err)
	}
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(config.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Calendar client: %w", err)
	}

	calendarID := "primary"
	if calendarName != "" && calendarName != "primary" {
		list, err := srv.CalendarList.List().Do()
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve calendar list: %w", err)
		}
		calendarID = ""
		for _, item := range list.Items {
			if item.Summary == calendarName {
				calendarID = item.Id
				break
			}
		}
		if calendarID == "" {
			return nil, fmt.Errorf("calendar %q not found", calendarName)
		}
	} else {
		calendarName = "primary"
	}
	return &GoogleSource{srv: srv, calendarID: calendarID, calendarName: calendarName}, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token from file %s: %w", file, err)
	}
	return tok, nil
}

// EventsForDate lists the calendar's events overlapping the given day, in
// local time.
func (g *GoogleSource) EventsForDate(ctx context.Context, date string) ([]Event, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("bad date %q: %w", date, err)
	}
	res, err := g.srv.Events.List(g.calendarID).
		Context(ctx).
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(day.Format(time.RFC3339)).
		TimeMax(day.AddDate(0, 0, 1).Format(time.RFC3339)).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve events from calendar: %w", err)
	}
	var out []Event
	for _, item := range res.Items {
		if item.Status == "cancelled" {
			continue
		}
		e := Event{
			UID:      ensureUID(item.ICalUID),
			Calendar: g.calendarName,
			Summary:  item.Summary,
			Location: item.Location,
			CallURL:  item.HangoutLink,
		}
		if item.Start != nil {
			e.Start = clockOf(item.Start.DateTime)
		}
		if item.End != nil {
			e.End = clockOf(item.End.DateTime)
		}
		out = append(out, e)
	}
	return out, nil
}
