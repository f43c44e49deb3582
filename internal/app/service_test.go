package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeService struct {
	name     string
	startErr error
	block    bool

	mu      *sync.Mutex
	stopped *[]string
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Start(ctx context.Context) error {
	if s.block {
		<-ctx.Done()
		return nil
	}
	return s.startErr
}

func (s *fakeService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	*s.stopped = append(*s.stopped, s.name)
	return nil
}

func TestRunnerStopsAllWhenOneServiceFails(t *testing.T) {
	var mu sync.Mutex
	var stopped []string
	httpSvc := &fakeService{name: "http", block: true, mu: &mu, stopped: &stopped}
	workerSvc := &fakeService{name: "worker", startErr: errors.New("redis down"), mu: &mu, stopped: &stopped}

	err := NewRunner(httpSvc, nil, workerSvc).Run(context.Background(), time.Second, nil)
	if err == nil || !strings.Contains(err.Error(), "service worker") {
		t.Fatalf("expected wrapped worker error, got %v", err)
	}
	if len(stopped) != 2 || stopped[0] != "worker" || stopped[1] != "http" {
		t.Fatalf("services should stop in reverse order, got %v", stopped)
	}
}

func TestRunnerReturnsNilOnCancel(t *testing.T) {
	var mu sync.Mutex
	var stopped []string
	ctx, cancel := context.WithCancel(context.Background())
	runner := NewRunner(&fakeService{name: "sweeper", block: true, mu: &mu, stopped: &stopped})

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	if err := runner.Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("cancel should not surface as error, got %v", err)
	}
	if len(stopped) != 1 {
		t.Fatalf("sweeper should be stopped once, got %v", stopped)
	}
}

func TestRunnerWithoutServices(t *testing.T) {
	if err := NewRunner().Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("empty runner should fail")
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]string{
		"":         ModeAll,
		" API ":    ModeAPI,
		"worker":   ModeWorker,
		"all":      ModeAll,
		"cronjobs": "",
	}
	for raw, want := range cases {
		got, err := ParseMode(raw)
		if want == "" {
			if err == nil {
				t.Fatalf("ParseMode(%q) should fail", raw)
			}
			continue
		}
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) want %s, got %s err=%v", raw, want, got, err)
		}
	}
}
