package cedar

import (
	"testing"

	"github.com/cedarkv/cedar/lib/db"
	dbtesting "github.com/cedarkv/cedar/lib/db/testing"
)

func Test(t *testing.T) {
	dbtesting.RunKVDBTests(t, "CedarDB", func() db.KVDB {
		return NewCedarDB(nil)
	})
}

func Benchmark(b *testing.B) {
	dbtesting.RunKVDBBenchmarks(b, "CedarDB", func() db.KVDB {
		return NewCedarDB(nil)
	})
}
