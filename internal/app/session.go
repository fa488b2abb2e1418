package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/bskyposts/internal/post"
	"github.com/hyperifyio/bskyposts/internal/sanitize"
	"github.com/hyperifyio/bskyposts/internal/source"
)

const (
	modePrompt = "Enter \"S\" or \"L\" (without the quotes. Hitting return is the same as \"S\").\n" +
		"\"S\": use sample files on your computer.\n" +
		"\t(Avoids hundreds of people bothering the real webserver frequently/simultaneously.\n" +
		"\tAlso useful in case of Internet access problems.)\n" +
		"\"L\": use the live Bluesky site.\n" +
		"Your choice? "
	nextPostPrompt = "Hit return for next post, or \"q\" to stop for this handle: "
	postRule       = ".........."
	switchNotice   = "  !!! SWITCHING TO SAMPLES MODE!!! "
	byeMessage     = "Bye for now! Blue skies ahead!\n"
)

// errQuit ends the session; it never leaves Run.
var errQuit = errors.New("quit")

// Run drives the prompts until the user quits or input ends.
func (a *App) Run(ctx context.Context) error {
	logger := log.With().Str("session", uuid.NewString()).Logger()
	ctx = logger.WithContext(ctx)

	if err := a.chooseMode(ctx); err != nil {
		if errors.Is(err, errQuit) {
			return nil
		}
		return err
	}
	a.println()

	prompt := fmt.Sprintf("Enter a Bluesky handle. Or, just hit return for %s.\nOr, type \"q\" to quit: ", a.defaultHandle)
	for {
		page, handle, err := a.fetchHandle(ctx, prompt)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := a.walkPosts(ctx, handle, page); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}
		prompt = fmt.Sprintf("......\n\nEnter another handle, or press return for %s, or \"q\" to quit: ", a.defaultHandle)
	}
}

// chooseMode asks for sample or live mode when a browser is available.
func (a *App) chooseMode(ctx context.Context) error {
	switch a.cfg.Mode {
	case ModeSample:
		return nil
	case ModeLive:
		return a.tryLive(ctx)
	}
	for a.liveAvailable {
		answer, ok := a.ask(modePrompt)
		if !ok {
			return errQuit
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		answer = strings.NewReplacer(`"`, "", "'", "").Replace(answer)
		switch answer {
		case "", string(ModeSample):
			return nil
		case string(ModeLive):
			return a.tryLive(ctx)
		default:
			a.printf("Sorry, I couldn't process your response.\n\n")
		}
	}
	return nil
}

func (a *App) tryLive(ctx context.Context) error {
	if err := a.startLive(ctx); err != nil {
		if !errors.Is(err, source.ErrSessionSetup) {
			return err
		}
		zerolog.Ctx(ctx).Debug().Err(err).Msg("live mode setup failed")
		a.printf("Couldn't set driver.\n%s\n", switchNotice)
		a.downgrade()
	}
	return nil
}

// fetchHandle prompts until some page text is obtained. Recoverable source
// errors are reported and the prompt repeats.
func (a *App) fetchHandle(ctx context.Context, prompt string) (string, string, error) {
	logger := zerolog.Ctx(ctx)
	for {
		handle, ok := a.ask(prompt)
		if !ok {
			return "", "", errQuit
		}
		handle = strings.TrimSpace(handle)
		a.println()

		if a.mode != ModeLive {
			for !a.knownHandle(handle) {
				a.printBadHandle(handle, true)
				if handle, ok = a.ask(prompt); !ok {
					return "", "", errQuit
				}
				handle = strings.TrimSpace(handle)
			}
		}

		switch handle {
		case "":
			handle = a.defaultHandle
		case "q":
			a.printf("%s", byeMessage)
			return "", "", errQuit
		}

		page, err := a.src.Fetch(ctx, handle)
		switch {
		case err == nil:
			logger.Debug().Str("handle", handle).Str("source", a.src.Name()).Int("bytes", len(page)).Msg("fetched page")
			a.maybeSaveSample(ctx, handle, page)
			return page, handle, nil
		case errors.Is(err, source.ErrHandleNotFound):
			a.printBadHandle(handle, false)
		case errors.Is(err, source.ErrSessionSetup):
			logger.Debug().Err(err).Msg("web driver failed")
			a.printf("Problem with web driver.\n%s\n\n", switchNotice)
			a.downgrade()
		case errors.Is(err, source.ErrInvalidHandle):
			logger.Debug().Err(err).Msg("live fetch failed")
			a.printBadHandle(handle, false)
		case errors.Is(err, source.ErrTimeout):
			logger.Debug().Err(err).Msg("live fetch timed out")
			a.printf("Timed out\n")
		default:
			return "", "", fmt.Errorf("fetch %s: %w", handle, err)
		}
	}
}

func (a *App) knownHandle(handle string) bool {
	return handle == "" || handle == "q" || slices.Contains(a.handles, handle)
}

func (a *App) maybeSaveSample(ctx context.Context, handle, page string) {
	if !a.cfg.SaveSamples || a.mode != ModeLive {
		return
	}
	handle = source.NormalizeHandle(handle)
	if err := a.samples.Save(handle, page); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("handle", handle).Msg("save sample failed")
		return
	}
	if !slices.Contains(a.handles, handle) {
		a.handles = append(a.handles, handle)
	}
}

// walkPosts shows the page's posts one at a time until they run out or the
// user stops.
func (a *App) walkPosts(ctx context.Context, handle, page string) error {
	logger := zerolog.Ctx(ctx)
	if title := sanitize.PageTitle(page); title != "" {
		a.printf("%s\n\n", title)
	}
	w := post.NewWalker(page)
	for {
		segment, ok := w.Next()
		if !ok {
			return nil
		}
		if !post.Valid(segment) {
			logger.Warn().Str("handle", handle).Int("bytes", len(segment)).Msg("skipping segment without like count")
			continue
		}
		cleaned := sanitize.StripTags(post.Info(segment))
		a.printf("%s\n%s\n\n", cleaned, postRule)
		a.shown = append(a.shown, shownPost{Handle: handle, Text: cleaned})

		stop, err := a.askNextPost()
		if err != nil {
			return err
		}
		a.println()
		if stop {
			return nil
		}
	}
}

func (a *App) askNextPost() (bool, error) {
	for {
		response, ok := a.ask(nextPostPrompt)
		if !ok {
			return true, errQuit
		}
		switch strings.TrimSpace(response) {
		case "":
			return false, nil
		case "q", "Q":
			return true, nil
		}
		a.printf("You need to quit this handle before switching to another.\n")
	}
}

func (a *App) printBadHandle(given string, hint bool) {
	if a.mode == ModeLive {
		a.printf("Sorry, I couldn't access a page for %s on Bluesky.\n"+
			"Maybe that handle doesn't exist, or there's an internet issue?\n\n", given)
		return
	}
	a.printf("Sorry, I don't have a file for that handle in %s\n"+
		"Is folder '%s' in the current directory?\n", a.cfg.SampleDir, a.cfg.SampleDir)
	if !hint {
		return
	}
	if closest := source.Suggest(given, a.handles, DefaultSuggestions); len(closest) > 0 {
		a.printf("\n\tOr, maybe you meant one of the following: %s\n\n", strings.Join(closest, ", "))
		return
	}
	a.printf("I cannot guess what you might have intended.\n")
	a.printf("Your choices are %s\n\n", strings.Join(a.handles, ", "))
}

// ask prints prompt and reads one line. It reports false at end of input.
func (a *App) ask(prompt string) (string, bool) {
	a.printf("%s", prompt)
	if !a.in.Scan() {
		a.println()
		return "", false
	}
	return a.in.Text(), true
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println() {
	fmt.Fprintln(a.out)
}
