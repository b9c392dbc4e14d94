package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"frontier/internal/models"
	"frontier/internal/session"
	"frontier/internal/util"
	"frontier/pkg/log"

	"github.com/chzyer/readline"
)

const helpText = `Commands:
  /topic <text>     search arXiv and summarize the newest papers
  /level <level>    Beginner, Intermediate or Advanced
  /papers           list the papers loaded so far
  /history          show the conversation
  /clear            clear the conversation
  exit              quit
Anything else is sent as a question about the loaded papers.`

type ReadLine struct {
	session *session.Session
	rl      *readline.Instance
	out     io.Writer
}

func NewReadLine(sess *session.Session, historyFile string) (*ReadLine, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          promptFor(sess.Expertise()),
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}
	return &ReadLine{session: sess, rl: rl, out: rl.Stdout()}, nil
}

func promptFor(level models.Expertise) string {
	return fmt.Sprintf("[%s] >>> ", level)
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("Frontier chat started. Type /help for commands, 'exit' to quit.")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if quit := r.Handle(ctx, line); quit {
			return nil
		}
		r.rl.SetPrompt(promptFor(r.session.Expertise()))
	}
}

// Handle runs one input line and reports whether the user asked to quit.
func (r *ReadLine) Handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch {
	case line == "":
	case line == "exit" || line == "quit":
		return true
	case cmd == "/help":
		fmt.Fprintln(r.out, helpText)
	case cmd == "/topic":
		r.topic(ctx, arg)
	case cmd == "/level":
		level, err := models.ParseExpertise(arg)
		if err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", err)
			return false
		}
		r.session.SetExpertise(level)
		fmt.Fprintf(r.out, "Expertise set to %s.\n", level)
	case cmd == "/papers":
		r.papers()
	case cmd == "/history":
		r.history()
	case cmd == "/clear":
		r.session.HandleClearRequested(ctx, session.ClearRequested{})
		fmt.Fprintln(r.out, "Chat history cleared.")
	case strings.HasPrefix(cmd, "/"):
		fmt.Fprintf(r.out, "Unknown command %s. Type /help.\n", cmd)
	default:
		r.ask(ctx, line)
	}
	return false
}

func (r *ReadLine) topic(ctx context.Context, topic string) {
	fmt.Fprintf(r.out, "Searching arXiv for %q...\n", topic)
	res, err := r.session.HandleTopicSubmitted(ctx, session.TopicSubmitted{Topic: topic}, func(it session.Item) {
		PrintItem(r.out, it)
	})
	switch {
	case errors.Is(err, session.ErrEmptyTopic):
		fmt.Fprintln(r.out, "Usage: /topic <text>")
		return
	case err != nil:
		log.FromCtx(ctx).Error().Err(err).Msg("topic search failed")
		fmt.Fprintf(r.out, "Error fetching papers: %v\n", err)
		return
	case res.Empty:
		fmt.Fprintln(r.out, "No papers found for this topic.")
		return
	}
	fmt.Fprintf(r.out, "%d papers (%d new, %d cached, %d failed). Ask away.\n",
		res.Stats.Total, res.Stats.Generated, res.Stats.Cached, res.Stats.Failed)
}

func (r *ReadLine) ask(ctx context.Context, question string) {
	out := r.session.HandleChatSubmitted(ctx, session.ChatSubmitted{Question: question})
	for _, t := range out.Appended {
		if t.Role == models.RoleAssistant {
			PrintTurn(r.out, t)
		}
	}
}

func (r *ReadLine) papers() {
	entries := r.session.Corpus().Entries()
	if len(entries) == 0 {
		fmt.Fprintln(r.out, "No papers loaded yet.")
		return
	}
	for i, e := range entries {
		fmt.Fprintf(r.out, "%2d. %s [%s]\n    %s\n", i+1, e.Title, e.Category, e.PDFURL)
	}
	st := r.session.Stats()
	fmt.Fprintf(r.out, "Papers: %d  Questions: %d\n", st.Papers, st.Questions)
}

func (r *ReadLine) history() {
	turns := r.session.Conversation().Transcript()
	if len(turns) == 0 {
		fmt.Fprintln(r.out, "No conversation yet.")
		return
	}
	for _, t := range turns {
		PrintTurn(r.out, t)
	}
}

func PrintItem(w io.Writer, it session.Item) {
	fmt.Fprintf(w, "\n%s\n", it.Paper.Title)
	date := "undated"
	if !it.Paper.Published.IsZero() {
		date = it.Paper.Published.Format("2006-01-02")
	}
	fmt.Fprintf(w, "  %s | %s | %s\n", util.DisplaySnippet(util.JoinAuthors(it.Paper.Authors), 80), date, it.Paper.Category)
	fmt.Fprintf(w, "  PDF: %s\n", it.Paper.PDFURL)
	if it.Err != nil {
		fmt.Fprintf(w, "  Error generating summary: %v\n", it.Err)
		return
	}
	if it.Cached {
		fmt.Fprintln(w, "  (cached)")
	}
	fmt.Fprintf(w, "%s\n", it.Entry.Summary)
}

func PrintTurn(w io.Writer, t models.ChatTurn) {
	who := "You"
	if t.Role == models.RoleAssistant {
		who = "Assistant"
	}
	fmt.Fprintf(w, "[%s] %s: %s\n", t.Clock(), who, t.Content)
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
