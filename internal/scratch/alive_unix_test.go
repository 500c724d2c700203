//go:build unix

package scratch

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/uuid"
)

func TestProcessAlive(t *testing.T) {
	tests := []struct {
		name string
		pid  int
		want bool
	}{
		{"Self", os.Getpid(), true},
		{"Parent", os.Getppid(), true},
		{"Zero", 0, false},
		{"Beyond pid_max", 1<<31 - 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := processAlive(tt.pid); got != tt.want {
				t.Errorf("processAlive(%d) = %v, want %v", tt.pid, got, tt.want)
			}
		})
	}
}

func TestSweepRemovesDeadOwner(t *testing.T) {
	root := t.TempDir()
	dead := mkdir(t, filepath.Join(root, Prefix+strconv.Itoa(1<<31-1)+"-"+uuid.NewString()))

	n, err := Sweep(root)
	if err != nil {
		t.Fatalf("Sweep() error: %v", err)
	}
	if n != 1 {
		t.Errorf("Sweep() removed %d, want 1", n)
	}
	if _, err := os.Stat(dead); !os.IsNotExist(err) {
		t.Error("expected dead owner's scratch dir to be removed")
	}
}
