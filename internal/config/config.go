package config

import (
	"fmt"
	"os"
	"strings"
	"todoblocks/internal/importer"
	"todoblocks/internal/retrieve"

	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
)

var cfg *koanf.Koanf

const (
	CMD                 = "cmd"
	LOG_LEVEL           = "log.level"
	TODOIST_TOKEN       = "todoist.token"
	TODOIST_BASEURL     = "todoist.baseurl"
	DEFAULT_PROJECT     = "retrieve.defaultproject"
	CLEAR_TASKS         = "retrieve.clear"
	APPEND_TODO         = "retrieve.appendtodo"
	APPEND_LABELS       = "retrieve.appendlabels"
	APPEND_ID           = "retrieve.appendid"
	APPEND_CREATED      = "retrieve.appendcreated"
	APPEND_URL          = "retrieve.appendurl"
	PROJECT_PARENT      = "retrieve.projectparent"
	FILTER              = "filter"
	QUERY               = "query"
	QUERY_FILE          = "queryfile"
	SINK                = "sink"
	STDOUT_RAW          = "stdout.raw"
	NOTES_DB            = "notes.db"
	NOTES_PAGE          = "notes.page"
	NOTES_DATEFORMAT    = "notes.dateformat"
	WEBDAV_URL          = "webdav.url"
	WEBDAV_USER         = "webdav.user"
	WEBDAV_PASS         = "webdav.pass"
	WEBDAV_DIR          = "webdav.dir"
	ICS_PATH            = "ics.path"
	defaultNotesPage    = "Todoist"
	defaultProjectUnset = "--- ---"
)

func Gist() *koanf.Koanf {
	if cfg == nil {
		ini(os.Args[1:])
	}
	return cfg
}

// Settings maps the retrieve.* keys onto the retrieval settings.
func Settings() retrieve.Settings {
	k := Gist()
	return retrieve.Settings{
		DefaultProject:     k.String(DEFAULT_PROJECT),
		ClearTasks:         k.Bool(CLEAR_TASKS),
		AppendTodo:         k.Bool(APPEND_TODO),
		AppendLabels:       k.Bool(APPEND_LABELS),
		AppendTodoistID:    k.Bool(APPEND_ID),
		AppendCreationDate: k.Bool(APPEND_CREATED),
		AppendURL:          k.Bool(APPEND_URL),
		ProjectAsParent:    k.Bool(PROJECT_PARENT),
	}
}

func Sprint() string {
	sb := strings.Builder{}
	sb.WriteString("cmd|required|-\n")
	sb.WriteString("log_level|optional|info\n")
	sb.WriteString("todoist_token|required|-\n")
	sb.WriteString("todoist_baseurl|optional|" + importer.DefaultBaseURL + "\n")
	sb.WriteString("retrieve_defaultproject|default cmd|--- ---\n")
	sb.WriteString("retrieve_clear|optional|false\n")
	sb.WriteString("retrieve_appendtodo|optional|true\n")
	sb.WriteString("retrieve_appendlabels|optional|false\n")
	sb.WriteString("retrieve_appendid|optional|true\n")
	sb.WriteString("retrieve_appendcreated|optional|false\n")
	sb.WriteString("retrieve_appendurl|optional|false\n")
	sb.WriteString("retrieve_projectparent|optional|false\n")
	sb.WriteString("filter|custom cmd|-\n")
	sb.WriteString("query|query, watch cmd|-\n")
	sb.WriteString("queryfile|query, watch cmd|-\n")
	sb.WriteString("sink|optional|stdout (stdout, notes, webdav, ics, noop)\n")
	sb.WriteString("stdout_raw|optional|false\n")
	sb.WriteString("notes_db|notes sink|-\n")
	sb.WriteString("notes_page|optional|Todoist\n")
	sb.WriteString("notes_dateformat|optional|" + retrieve.DefaultDateFormat + "\n")
	sb.WriteString("webdav_url|webdav sink|-\n")
	sb.WriteString("webdav_user|optional|-\n")
	sb.WriteString("webdav_pass|optional|-\n")
	sb.WriteString("webdav_dir|optional|-\n")
	sb.WriteString("ics_path|ics sink|-\n")
	return sb.String()
}

func ini(args []string) {
	cfg = koanf.New(".")
	cfg.Set(LOG_LEVEL, "info")

	f := flag.NewFlagSet("config", flag.ContinueOnError)
	f.Usage = func() {
		fmt.Println(f.FlagUsages())
		os.Exit(0)
	}

	f.String(CMD, "", "application run mode")
	f.String(LOG_LEVEL, "info", "log level")
	f.String(TODOIST_TOKEN, "", "todoist api token")
	f.String(TODOIST_BASEURL, importer.DefaultBaseURL, "todoist api base url")
	f.String(DEFAULT_PROJECT, defaultProjectUnset, "default project as 'Name (id)' or id")
	f.Bool(CLEAR_TASKS, false, "delete tasks from todoist after retrieval")
	f.Bool(APPEND_TODO, true, "prepend the TODO keyword")
	f.Bool(APPEND_LABELS, false, "show labels when no query config is given")
	f.Bool(APPEND_ID, true, "set the todoistid property")
	f.Bool(APPEND_CREATED, false, "set the created property")
	f.Bool(APPEND_URL, false, "show the task url when no query config is given")
	f.Bool(PROJECT_PARENT, false, "use the default project name as parent block")
	f.String(FILTER, "", "todoist filter for the custom command")
	f.String(QUERY, "", "query definition (filter, yaml or json)")
	f.String(QUERY_FILE, "", "file holding the query definition")
	f.String(SINK, "stdout", "output sink: stdout, notes, webdav, ics, noop")
	f.Bool(STDOUT_RAW, false, "print the outline without markdown styling")
	f.String(NOTES_DB, "", "notes sqlite database path")
	f.String(NOTES_PAGE, defaultNotesPage, "notes page receiving the blocks")
	f.String(NOTES_DATEFORMAT, "", "page date format, overrides the one stored in the notes db")
	f.String(WEBDAV_URL, "", "webdav url")
	f.String(WEBDAV_USER, "", "webdav user")
	f.String(WEBDAV_PASS, "", "webdav password")
	f.String(WEBDAV_DIR, "", "webdav directory")
	f.String(ICS_PATH, "", "ics file path")
	f.Parse(args)
	if err := cfg.Load(posflag.Provider(f, ".", cfg), nil); err != nil {
		log.Panic().Err(err).Msg("error loading config")
	}
	lvl, err := zerolog.ParseLevel(cfg.String(LOG_LEVEL))
	if err != nil {
		log.Panic().Err(err).Msg("error parsing log level")
	}
	zerolog.SetGlobalLevel(lvl)

	printCfg()
}

func printCfg() {
	for _, key := range cfg.Keys() {
		value := cfg.String(key)
		if key == TODOIST_TOKEN || key == WEBDAV_PASS {
			value = mask(value)
		}
		log.Debug().Msgf("%s: %s", strings.ReplaceAll(key, ".", "_"), value)
	}
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}
