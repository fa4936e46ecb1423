package journal

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mkjt/ai-journal/internal/parsing"
)

var _ = Describe("Service", func() {
	var (
		store     *mockStore
		images    *mockImageStore
		extractor *mockExtractor
		tokenizer *mockTokenizer
		timeSrc   *mockTimeSource
		service   *Service
	)

	BeforeEach(func() {
		store = newMockStore()
		images = newMockImageStore()
		extractor = &mockExtractor{text: "2024年03月15日\nスーパーA店\n¥1,200\n¥120"}
		tokenizer = &mockTokenizer{tokens: []parsing.Token{
			{Surface: "スーパーA店", Features: []string{"名詞", "固有名詞", "組織", "*"}},
		}}
		timeSrc = &mockTimeSource{now: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)}
		service = NewServiceWithDeps(store, images, extractor, tokenizer, timeSrc)
	})

	Describe("Extract", func() {
		var (
			result *ExtractResult
			err    error
		)

		JustBeforeEach(func() {
			result, err = service.Extract(context.Background(), []byte("fake image data"))
		})

		When("extraction succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the raw OCR text", func() {
				Expect(result.RawText).To(Equal("2024年03月15日\nスーパーA店\n¥1,200\n¥120"))
			})

			It("should normalize the date", func() {
				Expect(result.Draft.Date).To(Equal("2024-03-15"))
			})

			It("should assemble the description", func() {
				Expect(result.Draft.Description).To(Equal("スーパーA店"))
			})

			It("should collect the amount candidates", func() {
				Expect(result.Draft.AmountCandidates).To(Equal([]parsing.Amount{
					{Raw: "¥1,200", Value: 1200},
					{Raw: "¥120", Value: 120},
				}))
			})

			It("should surface merchant candidates separately", func() {
				Expect(result.MerchantCandidates).To(Equal([]string{"スーパーA店"}))
			})

			It("should never auto-assign a merchant into the draft", func() {
				Expect(result.Draft.Merchant).To(BeEmpty())
			})
		})

		When("the OCR provider finds no text", func() {
			BeforeEach(func() {
				extractor.text = ""
			})

			It("should still return a draft", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Draft).NotTo(BeNil())
			})

			It("should fall back to the current processing date", func() {
				Expect(result.Draft.Date).To(Equal("2024-01-15"))
			})
		})

		When("the OCR provider fails", func() {
			var setupErr error

			BeforeEach(func() {
				setupErr = errors.New("ocr error")
				extractor.err = setupErr
			})

			It("returns the error", func() {
				Expect(err).To(MatchError(setupErr))
			})
		})

		When("the tokenizer fails", func() {
			BeforeEach(func() {
				tokenizer.err = errors.New("tokenizer error")
			})

			It("should not fail the extraction", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return no merchant candidates", func() {
				Expect(result.MerchantCandidates).To(BeEmpty())
			})
		})
	})

	Describe("Persist", func() {
		var (
			draft  *parsing.Draft
			record *Record
			err    error
		)

		BeforeEach(func() {
			draft = &parsing.Draft{
				Date:           "2024-03-15",
				Merchant:       "スーパーA店",
				Description:    "食料品",
				SelectedAmount: 1200,
			}
		})

		JustBeforeEach(func() {
			record, err = service.Persist(draft, []byte("fake image data"), "receipt.jpg")
		})

		When("every step succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should carry the draft's fields into the record", func() {
				Expect(record.Date).To(Equal("2024-03-15"))
				Expect(record.Merchant).To(Equal("スーパーA店"))
				Expect(record.Description).To(Equal("食料品"))
				Expect(record.Amount).To(Equal(1200))
			})

			It("should set the derived identifier", func() {
				Expect(record.TempName).To(Equal("2024-03-15_スーパーA店_1200"))
			})

			It("should rename the image to the identifier with the original extension", func() {
				Expect(images.files).To(HaveKey("2024-03-15_スーパーA店_1200.jpg"))
				Expect(images.files).NotTo(HaveKey("temp_receipt.jpg"))
			})

			It("should report the final image path", func() {
				Expect(record.ImagePath).To(Equal("2024-03-15_スーパーA店_1200.jpg"))
				Expect(record.ImageState).To(Equal(ImageFinal))
			})

			It("should update the stored row to the final path", func() {
				stored, getErr := store.Get(record.ID)
				Expect(getErr).NotTo(HaveOccurred())
				Expect(stored.ImagePath).To(Equal("2024-03-15_スーパーA店_1200.jpg"))
				Expect(stored.ImageState).To(Equal(ImageFinal))
			})
		})

		When("no amount is selected", func() {
			BeforeEach(func() {
				draft.SelectedAmount = 0
			})

			It("returns ErrInvalidDraft", func() {
				Expect(err).To(MatchError(ErrInvalidDraft))
			})

			It("should not stage an image", func() {
				Expect(images.files).To(BeEmpty())
			})

			It("should not create a store row", func() {
				Expect(store.records).To(BeEmpty())
			})
		})

		When("staging fails", func() {
			BeforeEach(func() {
				images.stageErr = errors.New("disk full")
			})

			It("returns the error", func() {
				Expect(err).To(HaveOccurred())
			})

			It("should not create a store row", func() {
				Expect(store.records).To(BeEmpty())
			})

			It("should not attempt a rename", func() {
				Expect(images.renameCalled).To(BeFalse())
			})
		})

		When("the store insert fails", func() {
			BeforeEach(func() {
				store.insertErr = errors.New("database error")
			})

			It("returns ErrStoreWrite", func() {
				Expect(err).To(MatchError(ErrStoreWrite))
			})

			It("should not attempt a rename", func() {
				Expect(images.renameCalled).To(BeFalse())
			})

			It("should leave the staged file in place", func() {
				Expect(images.files).To(HaveKey("temp_receipt.jpg"))
			})
		})

		When("the rename fails after a successful insert", func() {
			BeforeEach(func() {
				images.renameErr = errors.New("permission denied")
			})

			It("should still report the record as saved", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(record).NotTo(BeNil())
			})

			It("should keep the temporary path in the record", func() {
				Expect(record.ImagePath).To(Equal("temp_receipt.jpg"))
			})

			It("should mark the image as staged", func() {
				Expect(record.ImageState).To(Equal(ImageStaged))
			})

			It("should keep the temporary path in the store row", func() {
				stored, getErr := store.Get(record.ID)
				Expect(getErr).NotTo(HaveOccurred())
				Expect(stored.ImagePath).To(Equal("temp_receipt.jpg"))
				Expect(stored.ImageState).To(Equal(ImageStaged))
			})
		})
	})

	Describe("List", func() {
		var (
			records []*Record
			err     error
		)

		JustBeforeEach(func() {
			records, err = service.List()
		})

		When("records exist", func() {
			BeforeEach(func() {
				store.records = []*Record{{ID: 1}, {ID: 2}}
			})

			It("should return all records", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(records).To(HaveLen(2))
			})
		})

		When("the store fails", func() {
			BeforeEach(func() {
				store.listErr = errors.New("database error")
			})

			It("returns the error", func() {
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("ReplaceAll", func() {
		var (
			replacement []*Record
			err         error
		)

		BeforeEach(func() {
			store.records = []*Record{{ID: 1, Merchant: "old"}}
			replacement = []*Record{{ID: 1, Merchant: "edited"}}
		})

		JustBeforeEach(func() {
			err = service.ReplaceAll(replacement)
		})

		When("the replace succeeds", func() {
			It("should swap the table contents", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(store.records).To(HaveLen(1))
				Expect(store.records[0].Merchant).To(Equal("edited"))
			})
		})

		When("the store fails", func() {
			BeforeEach(func() {
				store.replaceErr = errors.New("database error")
			})

			It("returns the error", func() {
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("GetImage", func() {
		var (
			data []byte
			err  error
		)

		JustBeforeEach(func() {
			data, err = service.GetImage(1)
		})

		When("the record and image exist", func() {
			BeforeEach(func() {
				store.records = []*Record{{ID: 1, ImagePath: "2024-03-15_店_1200.jpg"}}
				images.files["2024-03-15_店_1200.jpg"] = []byte("image bytes")
			})

			It("should return the image bytes", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(data).To(Equal([]byte("image bytes")))
			})
		})

		When("the record does not exist", func() {
			It("returns the error", func() {
				Expect(err).To(HaveOccurred())
			})
		})
	})
})
