package journal

import (
	"bytes"
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Export", func() {
	var (
		store   *mockStore
		service *Service
		timeSrc *mockTimeSource
	)

	BeforeEach(func() {
		store = newMockStore()
		timeSrc = &mockTimeSource{now: time.Date(2024, 3, 15, 9, 30, 45, 0, time.UTC)}
		service = NewServiceWithDeps(store, newMockImageStore(), &mockExtractor{}, &mockTokenizer{}, timeSrc)
	})

	Describe("ExportCSV", func() {
		var (
			buf *bytes.Buffer
			err error
		)

		BeforeEach(func() {
			buf = &bytes.Buffer{}
		})

		JustBeforeEach(func() {
			err = service.ExportCSV(buf)
		})

		When("records exist", func() {
			BeforeEach(func() {
				store.records = []*Record{
					{
						ID:          1,
						Date:        "2024-03-15",
						Merchant:    "スーパーA店",
						Description: "食料品",
						Amount:      1200,
						TempName:    "2024-03-15_スーパーA店_1200",
						ImagePath:   "2024-03-15_スーパーA店_1200.jpg",
					},
					{
						ID:       2,
						Date:     "2024-03-16",
						Merchant: "書店B",
						Amount:   980,
					},
				}
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should start with a UTF-8 byte order mark", func() {
				Expect(buf.String()).To(HavePrefix("\uFEFF"))
			})

			It("should write the column header first", func() {
				lines := strings.Split(strings.TrimPrefix(buf.String(), "\uFEFF"), "\n")
				Expect(lines[0]).To(Equal("id,date,merchant,description,amount,temp_name,image_path"))
			})

			It("should write one row per record", func() {
				lines := strings.Split(strings.TrimPrefix(buf.String(), "\uFEFF"), "\n")
				Expect(lines[1]).To(Equal("1,2024-03-15,スーパーA店,食料品,1200,2024-03-15_スーパーA店_1200,2024-03-15_スーパーA店_1200.jpg"))
				Expect(lines[2]).To(Equal("2,2024-03-16,書店B,,980,,"))
			})
		})

		When("the store is empty", func() {
			It("should write only the header", func() {
				Expect(err).NotTo(HaveOccurred())
				lines := strings.Split(strings.TrimRight(strings.TrimPrefix(buf.String(), "\uFEFF"), "\n"), "\n")
				Expect(lines).To(HaveLen(1))
			})
		})

		When("the store fails", func() {
			BeforeEach(func() {
				store.listErr = errors.New("database error")
			})

			It("returns the error", func() {
				Expect(err).To(HaveOccurred())
			})

			It("should write nothing", func() {
				Expect(buf.Len()).To(BeZero())
			})
		})
	})

	Describe("ExportFilename", func() {
		It("should stamp the current time into the filename", func() {
			Expect(service.ExportFilename()).To(Equal("20240315093045_ai_journal.csv"))
		})
	})
})
