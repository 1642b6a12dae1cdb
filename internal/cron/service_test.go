package cron

import (
	"context"
	"errors"
	"testing"
)

type recordingJob struct {
	name string
	runs int
	err  error
}

func (j *recordingJob) Name() string { return j.name }

func (j *recordingJob) Run(context.Context) error {
	j.runs++
	return j.err
}

type fakeLock struct {
	acquired bool
	held     bool
	releases int
}

func (l *fakeLock) Acquire(context.Context) (bool, error) {
	if l.held {
		return false, nil
	}
	l.acquired = true
	return true, nil
}

func (l *fakeLock) Release(context.Context) error {
	l.releases++
	return nil
}

func TestRegistryPreservesOrderAndSkipsNil(t *testing.T) {
	first := &recordingJob{name: "first"}
	second := &recordingJob{name: "second"}
	registry := NewRegistry(first, nil, second)
	registry.Register(nil)

	jobs := registry.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].Name() != "first" || jobs[1].Name() != "second" {
		t.Fatal("registry order not preserved")
	}
}

func TestRunCycleRunsAllJobsAndReleasesLock(t *testing.T) {
	ok := &recordingJob{name: "ok"}
	failing := &recordingJob{name: "failing", err: errors.New("boom")}
	lock := &fakeLock{}

	svc, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(ok, failing),
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if ok.runs != 1 || failing.runs != 1 {
		t.Fatal("every registered job must run even when one fails")
	}
	if lock.releases != 1 {
		t.Fatalf("expected lock released once, got %d", lock.releases)
	}
}

func TestRunCycleSkipsWhenLockHeld(t *testing.T) {
	job := &recordingJob{name: "job"}
	lock := &fakeLock{held: true}

	svc, _ := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(job),
		Lock:     lock,
	})

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatal("jobs must not run when the lock is held elsewhere")
	}
}
