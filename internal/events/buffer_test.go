package events

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("buffer", Ordered, func() {
	Context("buffer", func() {
		It("keeps insertion order", func() {
			buffer := newBuffer()

			err := buffer.PushBack(&message{Kind: ImportJobMessageKind, Data: []byte("msg1")})
			Expect(err).To(BeNil())
			Expect(buffer.Size()).To(Equal(1))

			err = buffer.PushBack(&message{Kind: ImportJobMessageKind, Data: []byte("msg2")})
			Expect(err).To(BeNil())
			err = buffer.PushBack(&message{Kind: VendorFileMessageKind, Data: []byte("msg3")})
			Expect(err).To(BeNil())
			Expect(buffer.Size()).To(Equal(3))

			m := buffer.Pop()
			Expect(m).NotTo(BeNil())
			Expect(m.Data).To(Equal([]byte("msg1")))

			m = buffer.Pop()
			Expect(m).NotTo(BeNil())
			Expect(m.Data).To(Equal([]byte("msg2")))

			m = buffer.Pop()
			Expect(m).NotTo(BeNil())
			Expect(m.Kind).To(Equal(VendorFileMessageKind))
			Expect(buffer.Size()).To(Equal(0))
		})

		It("pops nil when drained", func() {
			buffer := newBuffer()

			err := buffer.PushBack(&message{Kind: ImportJobMessageKind, Data: []byte("msg1")})
			Expect(err).To(BeNil())

			m := buffer.Pop()
			Expect(m).NotTo(BeNil())
			Expect(buffer.Size()).To(Equal(0))

			m = buffer.Pop()
			Expect(m).To(BeNil())
		})
	})
})
