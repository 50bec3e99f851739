package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/PolarWolf314/lockd/internal/events"
	"github.com/PolarWolf314/lockd/internal/session"
	"github.com/PolarWolf314/lockd/internal/ui"
	"github.com/PolarWolf314/lockd/internal/utils"
	"github.com/PolarWolf314/lockd/internal/workflows"
	"github.com/PolarWolf314/lockd/internal/workspace"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

// errExit ends the shell loop.
var errExit = errors.New("exit")

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive workspace session",
	Long: `Starts a session that keeps the key and the opened tree in memory.

Items are addressed by the id printed when they are opened. Type 'help' for
the list of commands. Notes are entered line by line and ended with a line
holding a single '.'.

Examples:
  lockd shell
  lockd shell < script.txt`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting shell")
		interactive := utils.IsTerminal()
		if interactive {
			fmt.Println()
			figure.NewColorFigure("lockd", "alligator2", "green", true).Print()
			fmt.Println()
		}

		sh := newShell(cmd.Context(), os.Stdin, cmd.OutOrStdout(), interactive)
		defer sh.close()
		return sh.run()
	},
}

// shell is one interactive session.
type shell struct {
	ctx         context.Context
	sess        *session.Session
	in          *bufio.Scanner
	out         io.Writer
	interactive bool

	mu       sync.Mutex
	watchers map[string]context.CancelFunc
	wg       sync.WaitGroup
}

func newShell(ctx context.Context, in io.Reader, out io.Writer, interactive bool) *shell {
	sh := &shell{
		ctx:         ctx,
		in:          bufio.NewScanner(in),
		out:         &syncWriter{w: out},
		interactive: interactive,
		watchers:    make(map[string]context.CancelFunc),
	}
	sh.sess = newSession(events.SinkFunc(sh.printEvent))
	return sh
}

// syncWriter serializes writes from the command loop and watcher events.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (sh *shell) run() error {
	for {
		if sh.interactive {
			fmt.Fprint(sh.out, sh.prompt())
		}
		if !sh.in.Scan() {
			return sh.in.Err()
		}

		fields := strings.Fields(sh.in.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		err := sh.exec(fields)
		if errors.Is(err, errExit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(sh.out, formatError(fields[0], err))
		}
	}
}

// exec runs one line through a fresh command tree so flags never leak
// between lines.
func (sh *shell) exec(args []string) error {
	root := sh.commands()
	root.SetArgs(args)
	root.SetOut(sh.out)
	root.SetErr(sh.out)
	return root.ExecuteContext(sh.ctx)
}

func (sh *shell) prompt() string {
	if sh.sess.Unlocked() {
		return ui.Highlight.Sprint(sh.sess.User()) + "> "
	}
	return ui.Muted.Sprint("locked") + "> "
}

// printEvent writes session events as they happen.
func (sh *shell) printEvent(ev events.Event) {
	switch ev.Name {
	case events.Error:
		return
	case events.NoteOpened:
		Logger.Debugf("event %s %s", ev.Name, ev.ID)
		return
	}
	fmt.Fprintf(sh.out, "%s %s %s\n", ui.Muted.Sprint(ev.Name), ui.Highlight.Sprint(ev.ID), ui.Path.Sprint(ev.Path))
}

// readBody reads lines until a line holding a single '.'.
func (sh *shell) readBody() (string, error) {
	if sh.interactive {
		fmt.Fprintln(sh.out, ui.Muted.Sprint("end with a line holding a single ."))
	}
	var lines []string
	for sh.in.Scan() {
		line := sh.in.Text()
		if line == "." {
			return strings.Join(lines, "\n"), nil
		}
		lines = append(lines, line)
	}
	if err := sh.in.Err(); err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

// watch re-scans opened folders below root whenever their contents change.
func (sh *shell) watch(root string) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.watchers[root]; ok {
		return
	}

	ctx, cancel := context.WithCancel(sh.ctx)
	sh.watchers[root] = cancel
	sh.wg.Add(1)
	go func() {
		defer sh.wg.Done()
		err := workspace.Watch(ctx, root, workspace.DefaultDebounce, Logger, func(dirs []string) {
			for _, dir := range dirs {
				if err := sh.sess.Refresh(dir); err != nil {
					Logger.Warnf("failed to refresh %s: %v", dir, err)
				}
			}
		})
		if err != nil {
			Logger.WarnfAlways("watcher on %s stopped: %v", root, err)
		}
	}()
}

func (sh *shell) unwatch(root string) bool {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	cancel, ok := sh.watchers[root]
	if ok {
		cancel()
		delete(sh.watchers, root)
	}
	return ok
}

func (sh *shell) close() {
	sh.mu.Lock()
	for root, cancel := range sh.watchers {
		cancel()
		delete(sh.watchers, root)
	}
	sh.mu.Unlock()
	sh.wg.Wait()
	sh.sess.Reset()
}

// commands builds the per-line command tree.
func (sh *shell) commands() *cobra.Command {
	root := &cobra.Command{
		Use:           "lockd>",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	var ids bool
	ls := &cobra.Command{
		Use:   "ls",
		Short: "Show the opened tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ui.RenderTree(sh.out, sh.sess.ListOpened(), ui.TreeOptions{ShowIDs: ids}); err != nil {
				return err
			}
			fmt.Fprintln(sh.out, ui.Muted.Sprintf("%d items open", sh.sess.Count()))
			return nil
		},
	}
	ls.Flags().BoolVar(&ids, "ids", true, "show item ids")

	var dest string
	encrypt := &cobra.Command{
		Use:   "encrypt <path>",
		Short: "Encrypt a file or folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sh.transform(cmd.Context(), workflows.Encrypt, args[0], dest)
		},
	}
	encrypt.Flags().StringVarP(&dest, "output", "o", "", "output path")
	decrypt := &cobra.Command{
		Use:   "decrypt <path>",
		Short: "Decrypt a file or folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sh.transform(cmd.Context(), workflows.Decrypt, args[0], dest)
		},
	}
	decrypt.Flags().StringVarP(&dest, "output", "o", "", "output path")

	root.AddCommand(
		&cobra.Command{
			Use:   "unlock [username]",
			Short: "Derive the key from your password",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				user := username()
				if len(args) == 1 {
					user = args[0]
				}
				password, err := readPassword()
				if err != nil {
					return err
				}
				return sh.sess.DeriveKey(user, password)
			},
		},
		&cobra.Command{
			Use:   "lock",
			Short: "Forget the key",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				sh.sess.Lock()
			},
		},
		&cobra.Command{
			Use:   "open <path>",
			Short: "Open a file or folder into the tree",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := sh.sess.OpenItem(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(sh.out, id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "init <dir>",
			Short: "Create a workspace folder and open it",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := sh.sess.InitWorkspace(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(sh.out, id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "drop <path>",
			Short: "Open, encrypt or decrypt a path depending on what it is",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				result, err := workflows.Drop(cmd.Context(), sh.sess, args[0], workflows.DropOptions{AuditPath: auditPath()})
				if err != nil {
					return err
				}
				switch {
				case result.Note != nil:
					fmt.Fprint(sh.out, ui.EnsureNewline(result.Note.Content))
				case result.ID != "":
					fmt.Fprintln(sh.out, result.ID)
				default:
					fmt.Fprint(sh.out, strings.TrimPrefix(utils.FormatPaths(result.Written), "\n"))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "close <id>",
			Short: "Close an item and everything below it",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				if !sh.sess.CloseItem(args[0]) {
					fmt.Fprintln(sh.out, ui.Warning.Sprint("⚠")+" Not open: "+args[0])
				}
			},
		},
		&cobra.Command{
			Use:   "rename <id> <title>",
			Short: "Rename an item on disk, keeping its id",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return sh.sess.RenameItem(args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "resolve <id>",
			Short: "Print the current path of an item",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := sh.sess.ResolveItem(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(sh.out, path)
				return nil
			},
		},
		ls,
		&cobra.Command{
			Use:   "cat <id>",
			Short: "Print a decrypted note",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				note, err := sh.sess.OpenNote(args[0])
				if err != nil {
					return err
				}
				if note.Lossy {
					Logger.WarnfAlways("%s is not valid UTF-8 and is shown as empty", note.Path)
				}
				fmt.Fprint(sh.out, ui.EnsureNewline(note.Content))
				return nil
			},
		},
		&cobra.Command{
			Use:   "write <id>",
			Short: "Replace a note's content",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				body, err := sh.readBody()
				if err != nil {
					return err
				}
				return sh.sess.SaveNote(args[0], body)
			},
		},
		&cobra.Command{
			Use:   "new <path>",
			Short: "Write a new note and open it",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				body, err := sh.readBody()
				if err != nil {
					return err
				}
				id, err := sh.sess.SaveNoteAs(args[0], body)
				if err != nil {
					return err
				}
				fmt.Fprintln(sh.out, id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "copy <id> <path>",
			Short: "Save a copy of a note without opening it",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				note, err := sh.sess.OpenNote(args[0])
				if err != nil {
					return err
				}
				path, err := sh.sess.SaveNoteCopy(args[1], note.Content)
				if err != nil {
					return err
				}
				fmt.Fprintln(sh.out, path)
				return nil
			},
		},
		encrypt,
		decrypt,
		&cobra.Command{
			Use:   "watch <id>",
			Short: "Refresh an opened folder when it changes on disk",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				item, err := sh.sess.Item(args[0])
				if err != nil {
					return err
				}
				if !item.IsDirectory {
					return fmt.Errorf("%s is not a folder", item.Path)
				}
				sh.watch(item.Path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "unwatch <id>",
			Short: "Stop watching a folder",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := sh.sess.ResolveItem(args[0])
				if err != nil {
					return err
				}
				if !sh.unwatch(path) {
					fmt.Fprintln(sh.out, ui.Warning.Sprint("⚠")+" Not watched: "+path)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "last",
			Short: "Print the last file read or written",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(sh.out, sh.sess.LastPath())
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Clear the screen",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return utils.ClearScreen(sh.out)
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Forget the key and close everything",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				sh.sess.Reset()
			},
		},
		&cobra.Command{
			Use:     "exit",
			Aliases: []string{"quit"},
			Short:   "Leave the shell",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return errExit
			},
		},
	)
	return root
}

func (sh *shell) transform(ctx context.Context, run transformWorkflow, path, dest string) error {
	result, err := run(ctx, sh.sess, workflows.TransformOptions{
		Paths:     []string{path},
		Dest:      dest,
		AuditPath: auditPath(),
	})
	if err != nil {
		return err
	}
	for _, f := range result.Files {
		fmt.Fprintln(sh.out, ui.Path.Sprint(f))
	}
	return nil
}
