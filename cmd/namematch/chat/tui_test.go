package chatcmder

import (
	"context"
	"strings"

	bubbletea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/namematch/pkg/matcher"
	testutils "github.com/papercomputeco/namematch/pkg/utils/test"
)

var _ = Describe("chatModel", func() {
	var (
		ctx   context.Context
		store *testutils.MockVectorStore
		sess  *session
		model chatModel
	)

	update := func(msg bubbletea.Msg) bubbletea.Cmd {
		next, cmd := model.Update(msg)
		model = next.(chatModel)
		return cmd
	}

	key := func(t bubbletea.KeyType) bubbletea.KeyMsg {
		return bubbletea.KeyMsg{Type: t}
	}

	typeText := func(s string) {
		update(bubbletea.KeyMsg{Type: bubbletea.KeyRunes, Runes: []rune(s)})
	}

	BeforeEach(func() {
		ctx = context.Background()
		store = testutils.NewMockVectorStore()
		sess = newTestSession(store, &fakeHistoryStore{})
		model = newChatModel(ctx, sess, "people", nil)
	})

	AfterEach(func() {
		sess.close()
	})

	It("starts busy and opens the configured collection", func() {
		Expect(model.busy).To(BeTrue())
		Expect(model.Init()).NotTo(BeNil())

		update(collectionDoneMsg{notices: sess.open(ctx, "people")})

		Expect(model.busy).To(BeFalse())
		Expect(model.active).To(Equal("people"))
		Expect(model.View()).To(ContainSubstring("Vector store for collection 'people' initialized successfully."))
	})

	Context("once the collection is open", func() {
		BeforeEach(func() {
			update(collectionDoneMsg{notices: sess.createCollection(ctx, "people")})
		})

		It("searches the typed query and shows the reply", func() {
			typeText("Londun")
			cmd := update(key(bubbletea.KeyEnter))
			Expect(cmd).NotTo(BeNil())

			Expect(model.busy).To(BeTrue())
			Expect(model.chatInput.Value()).To(BeEmpty())
			Expect(sess.history).To(HaveLen(1))
			Expect(sess.history[0].Content).To(Equal("Londun"))

			update(cmd())

			Expect(model.busy).To(BeFalse())
			Expect(sess.history).To(HaveLen(2))
			Expect(sess.history[1].Role).To(Equal(roleAssistant))
			Expect(sess.history[1].Content).To(ContainSubstring("**Best Match:** 'londun'"))
		})

		It("ignores a blank query", func() {
			typeText("   ")
			Expect(update(key(bubbletea.KeyEnter))).To(BeNil())
			Expect(sess.history).To(BeEmpty())
		})

		It("refuses new actions while one is running", func() {
			typeText("Jon")
			update(key(bubbletea.KeyEnter))

			Expect(update(key(bubbletea.KeyCtrlN))).To(BeNil())
			Expect(update(key(bubbletea.KeyCtrlX))).To(BeNil())
		})

		It("creates the collection named in the collection input", func() {
			update(key(bubbletea.KeyTab))
			Expect(model.focus).To(Equal(focusCollection))

			model.collectionInput.SetValue("")
			typeText("places")
			Expect(model.collectionInput.Value()).To(Equal("places"))

			cmd := update(key(bubbletea.KeyCtrlN))
			Expect(cmd).NotTo(BeNil())
			update(cmd())

			Expect(model.active).To(Equal("places"))
			Expect(store.Collections["places"].Documents).NotTo(BeEmpty())
		})

		It("deletes the collection named in the collection input", func() {
			cmd := update(key(bubbletea.KeyCtrlX))
			Expect(cmd).NotTo(BeNil())
			update(cmd())

			Expect(store.Collections).NotTo(HaveKey("people"))
			Expect(model.notices).To(ContainElement(matcher.Notice{
				Level:   matcher.LevelSuccess,
				Message: "Collection 'people' successfully deleted.",
			}))
		})

		It("warns when the collection name is empty", func() {
			model.collectionInput.SetValue("  ")

			Expect(update(key(bubbletea.KeyCtrlN))).To(BeNil())
			Expect(model.busy).To(BeFalse())
			Expect(model.notices).To(HaveLen(1))
			Expect(model.notices[0].Level).To(Equal(matcher.LevelWarn))
		})

		It("does not search from the collection input", func() {
			update(key(bubbletea.KeyTab))
			Expect(update(key(bubbletea.KeyEnter))).To(BeNil())
			Expect(sess.history).To(BeEmpty())
		})

		It("clears the transcript", func() {
			sess.appendMessage(roleUser, "Jon")
			update(key(bubbletea.KeyCtrlL))

			Expect(sess.history).To(BeEmpty())
			Expect(model.View()).To(ContainSubstring("No messages yet."))
		})
	})

	It("keeps only the latest notices", func() {
		var notices []matcher.Notice
		for range maxNotices + 2 {
			notices = append(notices, matcher.Notice{Level: matcher.LevelInfo, Message: "note"})
		}
		notices = append(notices, matcher.Notice{Level: matcher.LevelInfo, Message: "last"})

		update(collectionDoneMsg{notices: notices})

		Expect(model.notices).To(HaveLen(maxNotices))
		Expect(model.notices[maxNotices-1].Message).To(Equal("last"))
	})

	It("sizes the transcript to the window", func() {
		update(bubbletea.WindowSizeMsg{Width: 100, Height: 40})

		Expect(model.transcript.Width).To(Equal(100))
		Expect(model.transcript.Height).To(Equal(40 - reservedRows))
	})

	It("cuts notices to the window width", func() {
		update(bubbletea.WindowSizeMsg{Width: 30, Height: 40})
		long := matcher.Notice{
			Level:   matcher.LevelError,
			Message: "Failed to delete collection 'people'. Details: connection refused",
		}

		line := model.renderNotice(long)
		Expect(line).To(HaveSuffix("Failed to delete ..."))
		Expect(line).NotTo(ContainSubstring("refused"))
	})

	It("renders assistant messages through the markdown renderer", func() {
		sess.appendMessage(roleUser, "Jon")
		sess.appendMessage(roleAssistant, "reply")
		model = newChatModel(ctx, sess, "people", func(s string) (string, error) {
			return strings.ToUpper(s), nil
		})

		out := model.renderTranscript()
		Expect(out).To(ContainSubstring("REPLY"))
		Expect(out).To(ContainSubstring("Jon"))
	})

	It("quits on escape", func() {
		cmd := update(key(bubbletea.KeyEscape))
		Expect(cmd).NotTo(BeNil())
		Expect(cmd()).To(Equal(bubbletea.QuitMsg{}))
	})
})
