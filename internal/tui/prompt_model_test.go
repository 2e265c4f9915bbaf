package tui_test

import (
	"bytes"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // Dot import is idiomatic for Ginkgo
	. "github.com/onsi/gomega"    //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/auto-download/internal/tui"
)

var errEmpty = errors.New("target root is required")

func requireValue(value string) error {
	if value == "" {
		return errEmpty
	}

	return nil
}

func typeText(prompt *tui.PromptModel, text string) {
	prompt.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

var _ = Describe("PromptModel", func() {
	var prompt *tui.PromptModel

	BeforeEach(func() {
		prompt = tui.NewPromptModel("Where should downloads go?", "/home/joe/Pictures", requireValue)
	})

	It("shows the question", func() {
		Expect(ansi.Strip(prompt.View())).To(ContainSubstring("Where should downloads go?"))
		Expect(prompt.Init()).ToNot(BeNil())
	})

	It("accepts a valid answer", func() {
		typeText(prompt, "  /photos ")

		_, cmd := prompt.Update(tea.KeyMsg{Type: tea.KeyEnter})

		Expect(prompt.Done()).To(BeTrue())
		Expect(prompt.Value()).To(Equal("/photos"))
		Expect(cmd()).To(Equal(tea.QuitMsg{}))
	})

	It("keeps asking while the answer is invalid", func() {
		_, cmd := prompt.Update(tea.KeyMsg{Type: tea.KeyEnter})

		Expect(cmd).To(BeNil())
		Expect(prompt.Done()).To(BeFalse())
		Expect(prompt.Err()).To(MatchError(errEmpty))
		Expect(ansi.Strip(prompt.View())).To(ContainSubstring("target root is required"))

		typeText(prompt, "/photos")
		prompt.Update(tea.KeyMsg{Type: tea.KeyEnter})

		Expect(prompt.Done()).To(BeTrue())
		Expect(prompt.Err()).ToNot(HaveOccurred())
	})

	It("can be cancelled", func() {
		_, cmd := prompt.Update(tea.KeyMsg{Type: tea.KeyEsc})

		Expect(prompt.Cancelled()).To(BeTrue())
		Expect(cmd()).To(Equal(tea.QuitMsg{}))
	})

	Describe("RunPrompt", func() {
		It("reads the answer from the input", func() {
			answer, err := tui.RunPrompt("Where should downloads go?", "", requireValue,
				tea.WithInput(strings.NewReader("/photos\r")), tea.WithOutput(&bytes.Buffer{}), tea.WithoutSignalHandler())
			Expect(err).ToNot(HaveOccurred())
			Expect(answer).To(Equal("/photos"))
		})

		It("reports cancellation", func() {
			_, err := tui.RunPrompt("Where should downloads go?", "/photos", nil,
				tea.WithInput(strings.NewReader("\x03")), tea.WithOutput(&bytes.Buffer{}), tea.WithoutSignalHandler())
			Expect(err).To(MatchError(tui.ErrPromptCancelled))
		})
	})
})
