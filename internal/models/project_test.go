package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProgress(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{"no tasks", 0, 0, 0},
		{"half done", 2, 4, 50},
		{"all done", 3, 3, 100},
		{"none done", 0, 5, 0},
		{"rounds to nearest", 1, 3, 33},
		{"rounds up", 2, 3, 67},
		{"negative total", 0, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.completed, tt.total); got != tt.want {
				t.Errorf("Progress(%d, %d) = %d, want %d", tt.completed, tt.total, got, tt.want)
			}
		})
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      string
	}{
		{"no tasks", 0, 0, StatusNotStarted},
		{"none done", 0, 4, StatusNotStarted},
		{"some done", 2, 4, StatusInProgress},
		{"all done", 4, 4, StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveStatus(tt.completed, tt.total); got != tt.want {
				t.Errorf("DeriveStatus(%d, %d) = %q, want %q", tt.completed, tt.total, got, tt.want)
			}
		})
	}
}

func TestHasMember(t *testing.T) {
	owner := primitive.NewObjectID()
	member := primitive.NewObjectID()
	outsider := primitive.NewObjectID()

	p := &Project{
		OwnerID: owner,
		Members: []primitive.ObjectID{owner, member},
	}

	if !p.HasMember(owner) {
		t.Error("owner should be a member")
	}
	if !p.HasMember(member) {
		t.Error("listed member should be a member")
	}
	if p.HasMember(outsider) {
		t.Error("outsider should not be a member")
	}
}

func TestHasMemberOwnerNotInList(t *testing.T) {
	owner := primitive.NewObjectID()
	p := &Project{OwnerID: owner}

	// Owner access never depends on the members array.
	if !p.HasMember(owner) {
		t.Error("owner should be a member even when the members array is empty")
	}
}
