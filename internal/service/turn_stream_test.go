package service

import (
	"context"
	"testing"
	"time"

	"pws-mentor-be/internal/dto"
)

func TestTurnStreamDeliversChunksThenRecord(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())
	stream := newTurnStream(cancel)

	go func() {
		stream.emit("hello ")
		stream.emit("world")
		stream.finish(&dto.TurnRecord{Turn: 1, FullText: "hello world"})
	}()

	var got string
	for chunk := range stream.Chunks() {
		got += chunk
	}
	if got != "hello world" {
		t.Errorf("chunks = %q, want %q", got, "hello world")
	}

	record, err := stream.Record(context.Background())
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if record.FullText != "hello world" {
		t.Errorf("record.FullText = %q", record.FullText)
	}
}

func TestTurnStreamCancelStopsEmit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stream := newTurnStream(cancel)

	stream.Cancel()

	if !stream.isCancelled() {
		t.Fatal("isCancelled() = false after Cancel")
	}
	if ctx.Err() == nil {
		t.Error("turn context not cancelled")
	}
	// emit must not block with no reader once cancelled.
	done := make(chan bool, 1)
	go func() {
		done <- stream.emit("late text")
	}()
	select {
	case forwarded := <-done:
		if forwarded {
			t.Error("emit() = true after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("emit blocked after cancel")
	}
}

func TestTurnStreamCancelIsIdempotent(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())
	stream := newTurnStream(cancel)

	stream.Cancel()
	stream.Cancel()

	go stream.finish(&dto.TurnRecord{Truncated: true})
	for range stream.Chunks() {
	}

	record, err := stream.Record(context.Background())
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if !record.Truncated {
		t.Error("record.Truncated = false, want true")
	}
}

func TestTurnStreamRecordHonorsContext(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())
	stream := newTurnStream(cancel)

	ctx, ctxCancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer ctxCancel()

	if _, err := stream.Record(ctx); err == nil {
		t.Error("Record() = nil error, want deadline exceeded")
	}
}
