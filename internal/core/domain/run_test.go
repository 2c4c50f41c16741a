package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestIndexingRun_Counters tests per-type and error counting
func TestIndexingRun_Counters(t *testing.T) {
	run := NewIndexingRun("run-1", "site-1")

	run.CountRecord(ObjectTypeWorkbook)
	run.CountRecord(ObjectTypeWorkbook)
	run.CountRecord(ObjectTypeDatasource)
	run.CountRecord(ObjectTypeView)
	run.CountRecord(ObjectType("other"))

	assert.Equal(t, 2, run.Workbooks)
	assert.Equal(t, 1, run.Datasources)
	assert.Equal(t, 1, run.Views)

	assert.True(t, run.Succeeded())

	run.RecordError(RunErrorTransport)
	run.RecordError(RunErrorTransport)
	run.RecordError(RunErrorQuality)

	assert.Equal(t, 3, run.ErrorCount())
	assert.Equal(t, 2, run.Errors[RunErrorTransport])
	assert.Equal(t, 1, run.Errors[RunErrorQuality])
	assert.False(t, run.Succeeded())
}

// TestIndexingRun_RecordErrorNilMap tests lazy error map initialization
func TestIndexingRun_RecordErrorNilMap(t *testing.T) {
	run := &IndexingRun{}
	run.RecordError(RunErrorAuth)
	assert.Equal(t, 1, run.Errors[RunErrorAuth])
}
