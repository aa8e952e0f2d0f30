package metrics

import "sync/atomic"

type SubmissionMetrics struct {
	Dispatched atomic.Int32
	Rejected   atomic.Int32
	Created    atomic.Int32
	Failed     atomic.Int32
}

func (m *SubmissionMetrics) Record(outcome string) {
	switch outcome {
	case OutcomeDispatched:
		m.Dispatched.Add(1)
	case OutcomeRejected:
		m.Rejected.Add(1)
	case OutcomeCreated:
		m.Created.Add(1)
	case OutcomeFailed:
		m.Failed.Add(1)
	}
	RecordSubmission(outcome)
}
