package request_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	json "github.com/goccy/go-json"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/trigger-functions/internal/request"
	"github.com/angeloszaimis/trigger-functions/internal/resolver"
)

var _ resolver.Request = (*request.HTTPRequest)(nil)

func newRequest(target, body string) *http.Request {
	if body == "" {
		return httptest.NewRequest(http.MethodGet, target, nil)
	}
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

var _ = Describe("HTTPRequest", func() {
	Describe("Parameter", func() {
		It("returns a query parameter", func() {
			req := request.New(newRequest("/api/greet?name=Ada", ""), 0)

			value, ok := req.Parameter("name")
			Expect(ok).To(BeTrue())
			Expect(value).To(Equal("Ada"))
		})

		It("returns the first of repeated parameters", func() {
			req := request.New(newRequest("/api/greet?name=Ada&name=Grace", ""), 0)

			value, _ := req.Parameter("name")
			Expect(value).To(Equal("Ada"))
		})

		It("reports absent parameters", func() {
			req := request.New(newRequest("/api/greet", ""), 0)

			_, ok := req.Parameter("name")
			Expect(ok).To(BeFalse())
		})

		It("reports an empty parameter as present", func() {
			req := request.New(newRequest("/api/greet?name=", ""), 0)

			value, ok := req.Parameter("name")
			Expect(ok).To(BeTrue())
			Expect(value).To(BeEmpty())
		})
	})

	Describe("Body", func() {
		It("decodes a JSON object", func() {
			req := request.New(newRequest("/api/greet", `{"name":"Grace","age":85}`), 0)

			payload, err := req.Body()
			Expect(err).NotTo(HaveOccurred())
			Expect(payload).To(HaveKeyWithValue("name", "Grace"))
			Expect(payload).To(HaveKeyWithValue("age", json.Number("85")))
		})

		It("keeps large integers exact", func() {
			req := request.New(newRequest("/api/greet", `{"name":12345678901234567890}`), 0)

			res := resolver.Resolve(req, "name")
			Expect(res.Found).To(BeTrue())
			Expect(res.Value).To(Equal("12345678901234567890"))
			Expect(res.Source).To(Equal(resolver.SourceBody))
		})

		It("fails on an absent body", func() {
			req := request.New(newRequest("/api/greet", ""), 0)

			_, err := req.Body()
			Expect(errors.Is(err, request.ErrEmptyBody)).To(BeTrue())
		})

		It("fails on invalid JSON", func() {
			req := request.New(newRequest("/api/greet", `{"name":`), 0)

			_, err := req.Body()
			Expect(errors.Is(err, request.ErrMalformedBody)).To(BeTrue())
		})

		It("fails on JSON that is not an object", func() {
			req := request.New(newRequest("/api/greet", `["Grace"]`), 0)

			_, err := req.Body()
			Expect(errors.Is(err, request.ErrMalformedBody)).To(BeTrue())
		})

		It("fails when the body exceeds the limit", func() {
			req := request.New(newRequest("/api/greet", `{"name":"Grace Hopper"}`), 8)

			_, err := req.Body()
			Expect(errors.Is(err, request.ErrBodyTooLarge)).To(BeTrue())
		})

		It("parses the body only once", func() {
			req := request.New(newRequest("/api/greet", `{"name":"Grace"}`), 0)

			first, err := req.Body()
			Expect(err).NotTo(HaveOccurred())
			second, err := req.Body()
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
		})

		It("returns the same error on repeated calls", func() {
			req := request.New(newRequest("/api/greet", `not json`), 0)

			_, first := req.Body()
			_, second := req.Body()
			Expect(first).To(HaveOccurred())
			Expect(second).To(Equal(first))
		})
	})

	Describe("resolution through the adapter", func() {
		It("resolves from the query string", func() {
			req := request.New(newRequest("/api/greet?name=Ada", `{"name":"Grace"}`), 0)

			Expect(resolver.Resolve(req, "name").Value).To(Equal("Ada"))
		})

		It("resolves from the body", func() {
			req := request.New(newRequest("/api/greet", `{"name":"Grace"}`), 0)

			Expect(resolver.Resolve(req, "name").Value).To(Equal("Grace"))
		})

		It("degrades a malformed body to not found", func() {
			req := request.New(newRequest("/api/greet", `{{{`), 0)

			Expect(resolver.Resolve(req, "name").Found).To(BeFalse())
		})
	})
})

var _ = DescribeTable("Reason",
	func(err error, expected string) {
		Expect(request.Reason(err)).To(Equal(expected))
	},
	Entry("no error", nil, ""),
	Entry("empty", request.ErrEmptyBody, "empty"),
	Entry("too large", request.ErrBodyTooLarge, "too_large"),
	Entry("malformed", request.ErrMalformedBody, "malformed"),
	Entry("other", errors.New("boom"), "unreadable"),
)
