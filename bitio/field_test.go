package bitio_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/readcross/tinytrie/bitio"
)

// "foo+" encodes the bit pattern 0111 1110 1000 1010 0011 1110.
var _ = Describe("ReadFieldBase64", func() {
	const stream = "foo+"

	DescribeTable("decodes windows of the reference stream",
		func(start, length int, want uint32) {
			got, err := bitio.ReadFieldBase64(stream, start, length)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("bits [0,4)", 0, 4, uint32(7)),
		Entry("bits [2,6)", 2, 4, uint32(15)),
		Entry("bits [8,16)", 8, 8, uint32(138)),
		Entry("bits [10,23)", 10, 13, uint32(1311)),
	)

	It("returns 0 for a zero-length field without consuming any bits", func() {
		got, err := bitio.ReadFieldBase64(stream, 5, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(uint32(0)))
	})

	It("rejects a window that runs past the end of the stream", func() {
		_, err := bitio.ReadFieldBase64(stream, 17, 8)
		Expect(errors.Is(err, bitio.ErrTruncated)).To(BeTrue())
	})

	It("rejects a start bit past the end of the stream", func() {
		_, err := bitio.ReadFieldBase64(stream, 25, 1)
		Expect(errors.Is(err, bitio.ErrTruncated)).To(BeTrue())
	})
})

var _ = Describe("DecodeBodyToBits + ReadFieldBits", func() {
	const stream = "foo+"

	It("agrees with ReadFieldBase64 on every in-range window", func() {
		buf, err := bitio.DecodeBodyToBits(stream)
		Expect(err).NotTo(HaveOccurred())
		Expect(buf).To(HaveLen(6 * len(stream)))

		total := 6 * len(stream)
		for start := 0; start < total; start++ {
			maxLen := total - start
			if maxLen > 32 {
				maxLen = 32
			}
			for length := 0; length <= maxLen; length++ {
				wantVal, wantErr := bitio.ReadFieldBase64(stream, start, length)
				gotVal, gotErr := bitio.ReadFieldBits(buf, start, length)
				Expect(gotErr).To(Equal(wantErr))
				Expect(gotVal).To(Equal(wantVal), "start=%d length=%d", start, length)
			}
		}
	})

	It("reproduces the known bit sequence for \"fo\"", func() {
		buf, err := bitio.DecodeBodyToBits("fo")
		Expect(err).NotTo(HaveOccurred())
		Expect(buf).To(Equal([]bool{
			false, true, true, true, true, true,
			true, false, true, false, false, false,
		}))
	})
})
