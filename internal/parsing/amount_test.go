package parsing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ExtractAmounts", func() {
	var (
		text    string
		amounts []Amount
	)

	JustBeforeEach(func() {
		amounts = ExtractAmounts(text)
	})

	When("no currency-marked numbers appear", func() {
		BeforeEach(func() {
			text = "スーパーA店\n牛乳 200ml 1200"
		})

		It("should return an empty sequence", func() {
			Expect(amounts).To(BeEmpty())
		})
	})

	When("several amounts appear", func() {
		BeforeEach(func() {
			text = "2024年03月15日\nスーパーA店\n¥1,200\n¥120"
		})

		It("should return them all in source order", func() {
			Expect(amounts).To(Equal([]Amount{
				{Raw: "¥1,200", Value: 1200},
				{Raw: "¥120", Value: 120},
			}))
		})
	})

	When("the same amount appears twice", func() {
		BeforeEach(func() {
			text = "¥500\n小計 ¥500"
		})

		It("should preserve the duplicate", func() {
			Expect(amounts).To(HaveLen(2))
			Expect(amounts[0].Value).To(Equal(500))
			Expect(amounts[1].Value).To(Equal(500))
		})
	})

	When("a marker is followed by a leading zero", func() {
		BeforeEach(func() {
			text = "¥0\n¥0,500"
		})

		It("should not produce a candidate", func() {
			Expect(amounts).To(BeEmpty())
		})
	})

	When("an amount is embedded mid-line", func() {
		BeforeEach(func() {
			text = "合計¥3,980円をお支払いください"
		})

		It("should match the marked substring", func() {
			Expect(amounts).To(Equal([]Amount{{Raw: "¥3,980", Value: 3980}}))
		})
	})

	When("thousands separators span groups", func() {
		BeforeEach(func() {
			text = "¥1,234,567"
		})

		It("should strip every separator before parsing", func() {
			Expect(amounts).To(Equal([]Amount{{Raw: "¥1,234,567", Value: 1234567}}))
		})
	})
})
