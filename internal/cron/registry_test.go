package cron

import (
	"context"
	"testing"
)

type noopJob struct{ name string }

func (n noopJob) Name() string              { return n.name }
func (n noopJob) Run(context.Context) error { return nil }

func TestRegistrySkipsNilJobs(t *testing.T) {
	registry := NewRegistry(noopJob{name: "a"}, nil, noopJob{name: "b"})
	registry.Register(nil)
	registry.Register(noopJob{name: "c"})

	jobs := registry.Jobs()
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}
	if jobs[0].Name() != "a" || jobs[1].Name() != "b" || jobs[2].Name() != "c" {
		t.Fatalf("jobs out of order: %v", jobs)
	}
}

func TestRegistryJobsReturnsCopy(t *testing.T) {
	registry := NewRegistry(noopJob{name: "a"})
	jobs := registry.Jobs()
	jobs[0] = noopJob{name: "mutated"}
	if registry.Jobs()[0].Name() != "a" {
		t.Fatal("mutating the returned slice must not affect the registry")
	}
}
