package engine

import (
	"bytes"
	"testing"

	"lsa/internal/pagesize"
	"lsa/internal/registry"
	"lsa/internal/threadhost"
)

func TestCreateThenReadIsAllZero(t *testing.T) {
	done := make(chan error, 1)
	threadhost.Spawn(func() {
		if err := Create(10); err != nil {
			done <- err
			return
		}
		defer Destroy()
		out := make([]byte, 10)
		if err := Read(0, 10, out); err != nil {
			done <- err
			return
		}
		if !bytes.Equal(out, make([]byte, 10)) {
			done <- errNotZero
			return
		}
		done <- nil
	})
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

var errNotZero = &testErr{"expected all-zero bytes from a freshly created area"}

type testErr struct{ s string }

func (e *testErr) Error() string { return e.s }

func TestWriteReadRoundTrip(t *testing.T) {
	done := make(chan error, 1)
	threadhost.Spawn(func() {
		if err := Create(8000); err != nil {
			done <- err
			return
		}
		defer Destroy()

		in := bytes.Repeat([]byte{0x5a}, 200)
		if err := Write(150, uint32(len(in)), in); err != nil {
			done <- err
			return
		}
		out := make([]byte, len(in))
		if err := Read(150, uint32(len(out)), out); err != nil {
			done <- err
			return
		}
		if !bytes.Equal(in, out) {
			done <- &testErr{"round trip mismatch"}
			return
		}
		done <- nil
	})
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

func TestCrossPageWrite(t *testing.T) {
	psize, err := pagesize.Get()
	if err != nil {
		t.Fatalf("pagesize.Get: %v", err)
	}

	done := make(chan error, 1)
	threadhost.Spawn(func() {
		if err := Create(8000); err != nil {
			done <- err
			return
		}
		defer Destroy()

		payload := []byte("ABCD")
		offset := uint32(psize - 2) // straddles page 0 / page 1
		if err := Write(offset, uint32(len(payload)), payload); err != nil {
			done <- err
			return
		}
		out := make([]byte, len(payload))
		if err := Read(offset, uint32(len(out)), out); err != nil {
			done <- err
			return
		}
		if !bytes.Equal(out, payload) {
			done <- &testErr{"cross-page round trip mismatch"}
			return
		}
		done <- nil
	})
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

func TestReadWriteBoundaries(t *testing.T) {
	done := make(chan error, 1)
	threadhost.Spawn(func() {
		if err := Create(100); err != nil {
			done <- err
			return
		}
		defer Destroy()

		var b [1]byte
		if err := Read(99, 1, b[:]); err != nil {
			done <- &testErr{"Read(size-1, 1) should succeed"}
			return
		}
		full := make([]byte, 100)
		if err := Read(0, 100, full); err != nil {
			done <- &testErr{"Read(0, size) should succeed"}
			return
		}
		if err := Read(100, 1, b[:]); err != ErrOutOfRange {
			done <- &testErr{"Read(size, 1) should fail with ErrOutOfRange"}
			return
		}
		done <- nil
	})
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

func TestReadWithNoAreaFails(t *testing.T) {
	done := make(chan error, 1)
	threadhost.Spawn(func() {
		var b [1]byte
		done <- Read(0, 1, b[:])
	})
	if err := <-done; err != ErrNoArea {
		t.Fatalf("Read with no area = %v, want ErrNoArea", err)
	}
}

func TestCloneCowSplit(t *testing.T) {
	psize, err := pagesize.Get()
	if err != nil {
		t.Fatalf("pagesize.Get: %v", err)
	}
	areaSize := uint32(2 * psize)

	srcTID := make(chan uint64, 1)
	aReadyForClone := make(chan struct{})
	bDone := make(chan error, 1)
	aCanCheck := make(chan struct{})
	aResult := make(chan error, 1)

	threadhost.Spawn(func() {
		if err := Create(areaSize); err != nil {
			aResult <- err
			return
		}
		defer Destroy()

		filler := bytes.Repeat([]byte{'X'}, int(areaSize))
		if err := Write(0, areaSize, filler); err != nil {
			aResult <- err
			return
		}

		srcTID <- uint64(threadhost.Current())
		close(aReadyForClone)
		<-aCanCheck

		got0 := make([]byte, 1)
		if err := Read(0, 1, got0); err != nil {
			aResult <- err
			return
		}
		if got0[0] != 'X' {
			aResult <- &testErr{"A's offset 0 changed after B's CoW write"}
			return
		}
		gotP1 := make([]byte, 1)
		if err := Read(uint32(psize), 1, gotP1); err != nil {
			aResult <- err
			return
		}
		if gotP1[0] != 'X' {
			aResult <- &testErr{"A's page 1 changed unexpectedly"}
			return
		}
		aResult <- nil
	})

	threadhost.Spawn(func() {
		<-aReadyForClone
		tid := <-srcTID
		if err := Clone(tid); err != nil {
			bDone <- err
			close(aCanCheck)
			return
		}
		defer Destroy()

		if err := Write(0, 1, []byte{'y'}); err != nil {
			bDone <- err
			close(aCanCheck)
			return
		}
		close(aCanCheck)

		got := make([]byte, 1)
		if err := Read(0, 1, got); err != nil {
			bDone <- err
			return
		}
		if got[0] != 'y' {
			bDone <- &testErr{"B's own write did not read back"}
			return
		}
		gotP1 := make([]byte, 1)
		if err := Read(uint32(psize), 1, gotP1); err != nil {
			bDone <- err
			return
		}
		if gotP1[0] != 'X' {
			bDone <- &testErr{"B's untouched page 1 should still read X"}
			return
		}
		bDone <- nil
	})

	if err := <-aResult; err != nil {
		t.Fatalf("A: %v", err)
	}
	if err := <-bDone; err != nil {
		t.Fatalf("B: %v", err)
	}
}

// TestCloneTwiceSharesPagesAtRefcountThree exercises cloning twice from
// the same source: every page of the source Area is retained once per
// clone, so each should sit at refcount 3 (the source plus its two
// clones) once both Clone calls have returned.
func TestCloneTwiceSharesPagesAtRefcountThree(t *testing.T) {
	psize, err := pagesize.Get()
	if err != nil {
		t.Fatalf("pagesize.Get: %v", err)
	}
	areaSize := uint32(2 * psize)

	srcTID := make(chan uint64, 1)
	release := make(chan struct{})
	srcResult := make(chan error, 1)

	threadhost.Spawn(func() {
		if err := Create(areaSize); err != nil {
			srcResult <- err
			return
		}
		defer Destroy()
		srcTID <- uint64(threadhost.Current())
		<-release
		srcResult <- nil
	})
	tid := <-srcTID

	cloned := make(chan error, 1)
	cloneResult := make(chan error, 1)
	threadhost.Spawn(func() {
		err := Clone(tid)
		cloned <- err
		if err != nil {
			return
		}
		defer Destroy()
		<-release
		cloneResult <- nil
	})
	if err := <-cloned; err != nil {
		close(release)
		t.Fatalf("first clone: %v", err)
	}

	cloned2 := make(chan error, 1)
	cloneResult2 := make(chan error, 1)
	threadhost.Spawn(func() {
		err := Clone(tid)
		cloned2 <- err
		if err != nil {
			return
		}
		defer Destroy()
		<-release
		cloneResult2 <- nil
	})
	if err := <-cloned2; err != nil {
		close(release)
		t.Fatalf("second clone: %v", err)
	}

	area, ok := registry.Lookup(registry.ThreadID(tid))
	if !ok {
		t.Fatal("source Area vanished from the registry")
	}
	for i := 0; i < area.PageCount(); i++ {
		if got := area.Page(i).Refcount(); got != 3 {
			t.Fatalf("page %d refcount = %d, want 3 (source + two clones)", i, got)
		}
	}

	close(release)
	if err := <-srcResult; err != nil {
		t.Fatalf("source: %v", err)
	}
	if err := <-cloneResult; err != nil {
		t.Fatalf("first clone: %v", err)
	}
	if err := <-cloneResult2; err != nil {
		t.Fatalf("second clone: %v", err)
	}
}
