package sftpup

import (
	"sync"
	"testing"

	"github.com/pkg/sftp"
)

func TestSessionPool_PickRoundRobins(t *testing.T) {
	pool := &sessionPool{clients: make([]*sftp.Client, 3)}

	var got []int
	for i := 0; i < 7; i++ {
		pool.pick()
		got = append(got, int(pool.next-1)%len(pool.clients))
	}

	want := []int{0, 1, 2, 0, 1, 2, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pick sequence[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestSessionPool_PickConcurrentIsRaceFree(t *testing.T) {
	pool := &sessionPool{clients: make([]*sftp.Client, 4)}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = pool.pick()
		}()
	}
	wg.Wait()
}

func TestSessionPool_Close_NilSafe(t *testing.T) {
	pool := &sessionPool{}
	if err := pool.Close(); err != nil {
		t.Errorf("Close on empty pool returned error: %v", err)
	}
}
