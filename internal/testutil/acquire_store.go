package testutil

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/andrebq/taskbox/store"
)

type (
	TestLog interface {
		Fatal(...interface{})
		Log(...interface{})
	}
)

func AcquireStore(ctx context.Context, t TestLog, name string) (*store.Store, func()) {
	dir, err := ioutil.TempDir("", "taskbox-tests")
	if err != nil {
		t.Fatal(err)
	}
	abspath := filepath.Join(dir, name+".db")
	db, err := store.Open(ctx, abspath)
	if err != nil {
		t.Fatal(err)
	}
	return db, func() {
		err := db.Close()
		if err != nil {
			t.Log("unable to close store", err)
		}
		err = os.RemoveAll(dir)
		if err != nil {
			t.Log("unable to cleanup temp dir", dir)
		}
	}
}
