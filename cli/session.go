package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cost-seer/domain"
	"cost-seer/service"
)

const sessionHelp = `Commands:
  set <field>=<value> ...  change the draft (team_exp, manager_exp, length,
                           transactions, entities, points_adjust, language)
  show                     print the draft or the estimate under review
  estimate                 estimate the draft
  save                     save the estimate under review
  discard                  drop the estimate under review
  list                     list saved estimates
  delete <id>              delete a saved estimate
  languages                list language codes
  quit                     leave the session`

func newSessionCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Start an interactive estimate, review and save session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts, cliIdentity(opts))
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			controller := service.NewSessionController(
				a.engine,
				a.store,
				service.WriterNotifier{W: out},
				a.logger,
			)
			_ = controller.Refresh(ctx)

			s := &session{controller: controller, engine: a.engine, out: out}
			fmt.Fprintln(out, sessionHelp)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, s.prompt())
				if !scanner.Scan() {
					fmt.Fprintln(out)
					return scanner.Err()
				}
				done, err := s.handle(cmd, strings.Fields(scanner.Text()))
				if err != nil {
					fmt.Fprintf(out, "error: %v\n", err)
				}
				if done {
					return nil
				}
			}
		},
	}
}

type session struct {
	controller *service.SessionController
	engine     *service.EstimationEngine
	out        io.Writer
}

func (s *session) prompt() string {
	if _, ok := s.controller.State().(service.Reviewing); ok {
		return "review> "
	}
	return "edit> "
}

func (s *session) handle(cmd *cobra.Command, fields []string) (bool, error) {
	if len(fields) == 0 {
		return false, nil
	}
	ctx := cmd.Context()

	switch fields[0] {
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(s.out, sessionHelp)
	case "set":
		draft := s.controller.Draft()
		if err := applyAssignments(&draft, fields[1:]); err != nil {
			return false, err
		}
		return false, s.controller.SetDraft(draft)
	case "show":
		return false, s.show()
	case "estimate":
		_, err := s.controller.Submit(s.controller.Draft())
		if err != nil {
			return false, nil // already notified
		}
		return false, s.show()
	case "save":
		saved, err := s.controller.Save(ctx)
		if errors.Is(err, service.ErrNothingToSave) {
			return false, err
		}
		if err == nil && saved == nil {
			return false, errors.New("sign in with --user to save estimates")
		}
	case "discard":
		s.controller.Discard()
	case "list":
		return false, printHistory(s.out, s.controller.Saved())
	case "delete":
		if len(fields) != 2 {
			return false, errors.New("usage: delete <id>")
		}
		_ = s.controller.Delete(ctx, fields[1])
	case "languages":
		return false, printLanguages(s.out, s.engine.LanguageOptions())
	default:
		return false, fmt.Errorf("unknown command %q, try help", fields[0])
	}
	return false, nil
}

func (s *session) show() error {
	switch st := s.controller.State().(type) {
	case service.Reviewing:
		return printEstimate(s.out, newEstimateReport(st.Estimate, s.controller.Saved()))
	default:
		fmt.Fprintf(s.out, "%+v\n", s.controller.Draft())
		return nil
	}
}

// applyAssignments parses field=value pairs into v.
func applyAssignments(v *domain.ParameterVector, pairs []string) error {
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("expected field=value, got %q", pair)
		}
		if key == "language" {
			code, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("language: %w", err)
			}
			v.Language = code
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		switch key {
		case "team_exp":
			v.TeamExp = value
		case "manager_exp":
			v.ManagerExp = value
		case "length":
			v.Length = value
		case "transactions":
			v.Transactions = value
		case "entities":
			v.Entities = value
		case "points_adjust":
			v.PointsAdjust = value
		default:
			return fmt.Errorf("unknown field %q", key)
		}
	}
	return nil
}
