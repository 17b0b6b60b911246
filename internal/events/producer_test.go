package events

import (
	"bytes"
	"context"
	"sync"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("producer", Ordered, func() {
	Context("write", func() {
		It("drains buffered events to the writer", func() {
			w := newTestWriter()
			ep := NewEventProducer(w)

			err := ep.Write(context.TODO(), ImportJobMessageKind, bytes.NewReader([]byte("msg1")))
			Expect(err).To(BeNil())
			err = ep.Write(context.TODO(), ChangeReviewedMessageKind, bytes.NewReader([]byte("msg2")))
			Expect(err).To(BeNil())

			Eventually(w.Count, "2s", "50ms").Should(Equal(2))
			Expect(w.Events()[0].Type()).To(Equal(ImportJobMessageKind))
			Expect(w.Events()[1].Type()).To(Equal(ChangeReviewedMessageKind))
			Expect(w.Events()[0].Source()).To(Equal(eventSource))

			ep.Close()
		})

		It("routes events to a custom topic", func() {
			w := newTestWriter()
			ep := NewEventProducer(w, WithOutputTopic("reconciler.audit"))

			err := ep.Write(context.TODO(), VendorFileMessageKind, bytes.NewReader([]byte("msg1")))
			Expect(err).To(BeNil())

			Eventually(w.Count, "2s", "50ms").Should(Equal(1))
			Expect(w.Topics()[0]).To(Equal("reconciler.audit"))

			ep.Close()
		})
	})
})

type testwriter struct {
	lock   sync.Mutex
	events []cloudevents.Event
	topics []string
}

func newTestWriter() *testwriter {
	return &testwriter{}
}

func (t *testwriter) Write(ctx context.Context, topic string, e cloudevents.Event) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.events = append(t.events, e)
	t.topics = append(t.topics, topic)
	return nil
}

func (t *testwriter) Close(_ context.Context) error {
	return nil
}

func (t *testwriter) Count() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return len(t.events)
}

func (t *testwriter) Events() []cloudevents.Event {
	t.lock.Lock()
	defer t.lock.Unlock()
	out := make([]cloudevents.Event, len(t.events))
	copy(out, t.events)
	return out
}

func (t *testwriter) Topics() []string {
	t.lock.Lock()
	defer t.lock.Unlock()
	out := make([]string, len(t.topics))
	copy(out, t.topics)
	return out
}
