package workflow_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/opencode-ai/workflow-mcp/citest/testutil"
)

type sessionInfo struct {
	ID          string `json:"id"`
	Checkpoints int    `json:"checkpoints"`
}

type workflowInfo struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Sessions int    `json:"sessions"`
}

func activeSessions(name string) []sessionInfo {
	resp, err := client.Get(ctx, "/workflow/"+name+"/session")
	Expect(err).NotTo(HaveOccurred())
	Expect(resp.IsSuccess()).To(BeTrue())

	var list []sessionInfo
	Expect(resp.JSON(&list)).To(Succeed())
	return list
}

var _ = Describe("Workflow tools", func() {
	for _, transport := range []testutil.Transport{testutil.Streamable, testutil.SSE} {
		transport := transport

		Context("over "+string(transport), func() {
			var mcp *testutil.MCPClient
			var callCtx context.Context
			var cancel context.CancelFunc

			BeforeEach(func() {
				callCtx, cancel = context.WithTimeout(ctx, 20*time.Second)
				var err error
				mcp, err = testServer.ConnectMCP(callCtx, "citest-"+string(transport), transport)
				Expect(err).NotTo(HaveOccurred())
			})

			AfterEach(func() {
				if mcp != nil {
					mcp.Close()
				}
				cancel()
			})

			It("lists one tool per reference workflow", func() {
				list, err := mcp.Session.ListTools(callCtx, nil)
				Expect(err).NotTo(HaveOccurred())

				names := []string{}
				for _, tool := range list.Tools {
					names = append(names, tool.Name)
				}
				Expect(names).To(ConsistOf("featureflag", "plus-number", "sum-number"))
			})

			It("adds two numbers across three calls", func() {
				text, err := mcp.Call(callCtx, "plus-number", nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(text).To(HavePrefix("Workflow progress: 20%.\n"))
				Expect(text).To(ContainSubstring("<workflow_status>processing</workflow_status>"))

				text, err = mcp.Input(callCtx, "plus-number", 2)
				Expect(err).NotTo(HaveOccurred())
				Expect(text).To(HavePrefix("Workflow progress: 33.33%.\n"))

				text, err = mcp.Input(callCtx, "plus-number", 3)
				Expect(err).NotTo(HaveOccurred())
				Expect(text).To(ContainSubstring("<workflow_status>done</workflow_status>"))
				Expect(text).To(ContainSubstring("<workflow_result>\n5\n</workflow_result>"))
			})

			It("asks again when the input does not match the schema", func() {
				_, err := mcp.Call(callCtx, "plus-number", nil)
				Expect(err).NotTo(HaveOccurred())

				text, err := mcp.Input(callCtx, "plus-number", map[string]any{"n": 1})
				Expect(err).NotTo(HaveOccurred())
				Expect(text).To(HavePrefix(`Invalid "input" format`))

				text, err = mcp.Input(callCtx, "plus-number", "4")
				Expect(err).NotTo(HaveOccurred())
				Expect(text).To(HavePrefix("Workflow progress: 33.33%."))

				text, err = mcp.Input(callCtx, "plus-number", 1)
				Expect(err).NotTo(HaveOccurred())
				Expect(text).To(ContainSubstring("<workflow_result>\n5\n</workflow_result>"))
			})

			It("sums from 1 to n one step at a time", func() {
				_, err := mcp.Call(callCtx, "sum-number", nil)
				Expect(err).NotTo(HaveOccurred())

				text, err := mcp.Input(callCtx, "sum-number", 2)
				Expect(err).NotTo(HaveOccurred())
				Expect(text).To(ContainSubstring("calculate 0 + 1"))

				text, err = mcp.Input(callCtx, "sum-number", 1)
				Expect(err).NotTo(HaveOccurred())
				Expect(text).To(ContainSubstring("calculate 1 + 2"))

				text, err = mcp.Input(callCtx, "sum-number", 3)
				Expect(err).NotTo(HaveOccurred())
				Expect(text).To(ContainSubstring("<workflow_result>\n3\n</workflow_result>"))
			})

			It("fails the workflow when the agent reports an error", func() {
				_, err := mcp.Call(callCtx, "featureflag", nil)
				Expect(err).NotTo(HaveOccurred())

				text, err := mcp.Call(callCtx, "featureflag", map[string]any{"error": "git is not installed"})
				Expect(err).NotTo(HaveOccurred())
				Expect(text).To(ContainSubstring("<workflow_status>error</workflow_status>"))
				Expect(text).To(ContainSubstring("git is not installed"))
			})

			It("restarts after an operator cancels the session", func() {
				_, err := mcp.Call(callCtx, "plus-number", nil)
				Expect(err).NotTo(HaveOccurred())
				_, err = mcp.Input(callCtx, "plus-number", 7)
				Expect(err).NotTo(HaveOccurred())

				sessions := activeSessions("plus-number")
				Expect(sessions).To(HaveLen(1))
				Expect(sessions[0].Checkpoints).To(Equal(2))

				resp, err := client.Delete(ctx, "/workflow/plus-number/session/"+sessions[0].ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.IsSuccess()).To(BeTrue())
				Expect(activeSessions("plus-number")).To(BeEmpty())

				text, err := mcp.Input(callCtx, "plus-number", 7)
				Expect(err).NotTo(HaveOccurred())
				Expect(text).To(HavePrefix("Workflow progress: 20%."))

				_, err = mcp.Input(callCtx, "plus-number", 1)
				Expect(err).NotTo(HaveOccurred())
				_, err = mcp.Input(callCtx, "plus-number", 1)
				Expect(err).NotTo(HaveOccurred())
			})
		})
	}

	It("keeps concurrent clients apart", func() {
		callCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
		defer cancel()

		a, err := testServer.ConnectMCP(callCtx, "client-a", testutil.Streamable)
		Expect(err).NotTo(HaveOccurred())
		defer a.Close()
		b, err := testServer.ConnectMCP(callCtx, "client-b", testutil.SSE)
		Expect(err).NotTo(HaveOccurred())
		defer b.Close()

		_, err = a.Call(callCtx, "plus-number", nil)
		Expect(err).NotTo(HaveOccurred())
		_, err = b.Call(callCtx, "plus-number", nil)
		Expect(err).NotTo(HaveOccurred())
		_, err = a.Input(callCtx, "plus-number", 10)
		Expect(err).NotTo(HaveOccurred())
		_, err = b.Input(callCtx, "plus-number", 20)
		Expect(err).NotTo(HaveOccurred())

		Expect(activeSessions("plus-number")).To(HaveLen(2))

		text, err := a.Input(callCtx, "plus-number", 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(ContainSubstring("<workflow_result>\n11\n</workflow_result>"))

		text, err = b.Input(callCtx, "plus-number", 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(ContainSubstring("<workflow_result>\n22\n</workflow_result>"))
	})
})

var _ = Describe("Operator API", func() {
	It("reports health", func() {
		resp, err := client.Get(ctx, "/health")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.IsSuccess()).To(BeTrue())

		var body map[string]any
		Expect(resp.JSON(&body)).To(Succeed())
		Expect(body).To(HaveKeyWithValue("status", "ok"))
		Expect(body).To(HaveKeyWithValue("workflows", BeNumerically("==", 3)))
	})

	It("lists the reference workflows", func() {
		resp, err := client.Get(ctx, "/workflow")
		Expect(err).NotTo(HaveOccurred())

		var list []workflowInfo
		Expect(resp.JSON(&list)).To(Succeed())
		Expect(list).To(HaveLen(3))
		Expect(list[1].Name).To(Equal("plus-number"))
		Expect(list[1].Title).To(Equal("plus number"))
	})

	It("answers 404 for unknown workflows and sessions", func() {
		resp, err := client.Get(ctx, "/workflow/deploy/session")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(404))

		resp, err = client.Delete(ctx, "/workflow/plus-number/session/nobody")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(404))
	})
})
