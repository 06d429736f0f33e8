package token

// KeywordKind is the reservation class of a keyword, deciding where the
// grammar accepts it as a plain identifier.
type KeywordKind int32

// Keyword reservation classes, least to most restricted.
const (
	NoKeyword KeywordKind = iota
	UnreservedKeyword
	ColNameKeyword
	TypeFuncNameKeyword
	ReservedKeyword
)

func (k KeywordKind) String() string {
	switch k {
	case NoKeyword:
		return "NO_KEYWORD"
	case UnreservedKeyword:
		return "UNRESERVED_KEYWORD"
	case ColNameKeyword:
		return "COL_NAME_KEYWORD"
	case TypeFuncNameKeyword:
		return "TYPE_FUNC_NAME_KEYWORD"
	case ReservedKeyword:
		return "RESERVED_KEYWORD"
	default:
		return "NO_KEYWORD"
	}
}

// Keyword token types. The four blocks mirror the server's keyword
// categories and must stay contiguous: KeywordOf classifies by range.
// Add new keywords inside their class block.
const (
	// Unreserved keywords: usable as any kind of name.
	ABORT Type = iota + 300
	ACTION
	ADD
	ALTER
	BEGIN
	BY
	CASCADE
	COMMIT
	COMMITTED
	CONFLICT
	CUBE
	CURRENT
	DATA
	DEFERRED
	DELETE
	DOUBLE
	DROP
	ESCAPE
	EXCLUDE
	EXPLAIN
	FILTER
	FIRST
	FOLLOWING
	GLOBAL
	GROUPS
	IF
	IMMEDIATE
	INDEX
	INSERT
	ISOLATION
	KEY
	LAST
	LEVEL
	LOCAL
	LOCKED
	MATCH
	MATERIALIZED
	NEXT
	NO
	NOTHING
	NOWAIT
	NULLS
	ORDINALITY
	OTHERS
	OVER
	PARTIAL
	PARTITION
	PRECEDING
	RANGE
	READ
	RECURSIVE
	RELEASE
	RENAME
	REPEATABLE
	REPLACE
	RESTRICT
	ROLLBACK
	ROLLUP
	ROWS
	SAVEPOINT
	SERIALIZABLE
	SESSION
	SET
	SETS
	SHARE
	SHOW
	SKIP
	START
	TEMP
	TEMPORARY
	TIES
	TRANSACTION
	TRUNCATE
	UNBOUNDED
	UNCOMMITTED
	UNKNOWN
	UNLOGGED
	UPDATE
	VARYING
	VIEW
	WITHIN
	WITHOUT
	WORK
	WRITE
	ZONE

	// Column-name keywords: acceptable as column, table, and alias names,
	// but not as function or type names.
	BETWEEN
	BIGINT
	BIT
	BOOLEAN
	CHAR
	CHARACTER
	COALESCE
	DEC
	DECIMAL
	EXISTS
	EXTRACT
	FLOAT
	GREATEST
	GROUPING
	INOUT
	INT
	INTEGER
	INTERVAL
	LEAST
	NONE
	NULLIF
	NUMERIC
	OUT
	POSITION
	PRECISION
	REAL
	ROW
	SETOF
	SMALLINT
	SUBSTRING
	TIME
	TIMESTAMP
	TRIM
	VALUES
	VARCHAR

	// Type/function-name keywords: acceptable as function and type names,
	// but not as column, table, or alias names.
	AUTHORIZATION
	BINARY
	COLLATION
	CONCURRENTLY
	CROSS
	CURRENT_SCHEMA
	FREEZE
	FULL
	ILIKE
	INNER
	IS
	ISNULL
	JOIN
	LEFT
	LIKE
	NATURAL
	NOTNULL
	OUTER
	OVERLAPS
	RIGHT
	SIMILAR
	TABLESAMPLE
	VERBOSE

	// Reserved keywords: never acceptable as names.
	ALL
	ANALYSE
	ANALYZE
	AND
	ANY
	ARRAY
	AS
	ASC
	ASYMMETRIC
	BOTH
	CASE
	CAST
	CHECK
	COLLATE
	COLUMN
	CONSTRAINT
	CREATE
	CURRENT_CATALOG
	CURRENT_DATE
	CURRENT_ROLE
	CURRENT_TIME
	CURRENT_TIMESTAMP
	CURRENT_USER
	DEFAULT
	DEFERRABLE
	DESC
	DISTINCT
	DO
	ELSE
	END
	EXCEPT
	FALSE
	FETCH
	FOR
	FOREIGN
	FROM
	GRANT
	GROUP
	HAVING
	IN
	INITIALLY
	INTERSECT
	INTO
	LATERAL
	LEADING
	LIMIT
	LOCALTIME
	LOCALTIMESTAMP
	NOT
	NULL
	OF
	OFFSET
	ON
	ONLY
	OR
	ORDER
	PLACING
	PRIMARY
	REFERENCES
	RETURNING
	SELECT
	SESSION_USER
	SOME
	SYMMETRIC
	TABLE
	THEN
	TO
	TRAILING
	TRUE
	UNION
	UNIQUE
	USER
	USING
	VARIADIC
	WHEN
	WHERE
	WINDOW
	WITH
)

const (
	firstKeyword         = ABORT
	firstColNameKeyword  = BETWEEN
	firstTypeFuncKeyword = AUTHORIZATION
	firstReservedKeyword = ALL
	lastKeyword          = WITH
)

// Lookup reports whether word, already folded to lower case, names a
// keyword.
func Lookup(word string) (Type, bool) {
	t, ok := keywords[word]
	return t, ok
}

// KeywordOf returns the reservation class of t, or NoKeyword for
// non-keyword tokens.
func KeywordOf(t Type) KeywordKind {
	switch {
	case t < firstKeyword || t > lastKeyword:
		return NoKeyword
	case t >= firstReservedKeyword:
		return ReservedKeyword
	case t >= firstTypeFuncKeyword:
		return TypeFuncNameKeyword
	case t >= firstColNameKeyword:
		return ColNameKeyword
	default:
		return UnreservedKeyword
	}
}

// IsKeyword reports whether t is any keyword token.
func IsKeyword(t Type) bool {
	return t >= firstKeyword && t <= lastKeyword
}

// IsReserved reports whether t is a fully reserved keyword.
func IsReserved(t Type) bool {
	return t >= firstReservedKeyword && t <= lastKeyword
}

// keywords maps lower-case keyword text to its token type. The scanner
// folds identifiers before consulting it.
var keywords = map[string]Type{
	"abort":        ABORT,
	"action":       ACTION,
	"add":          ADD,
	"alter":        ALTER,
	"begin":        BEGIN,
	"by":           BY,
	"cascade":      CASCADE,
	"commit":       COMMIT,
	"committed":    COMMITTED,
	"conflict":     CONFLICT,
	"cube":         CUBE,
	"current":      CURRENT,
	"data":         DATA,
	"deferred":     DEFERRED,
	"delete":       DELETE,
	"double":       DOUBLE,
	"drop":         DROP,
	"escape":       ESCAPE,
	"exclude":      EXCLUDE,
	"explain":      EXPLAIN,
	"filter":       FILTER,
	"first":        FIRST,
	"following":    FOLLOWING,
	"global":       GLOBAL,
	"groups":       GROUPS,
	"if":           IF,
	"immediate":    IMMEDIATE,
	"index":        INDEX,
	"insert":       INSERT,
	"isolation":    ISOLATION,
	"key":          KEY,
	"last":         LAST,
	"level":        LEVEL,
	"local":        LOCAL,
	"locked":       LOCKED,
	"match":        MATCH,
	"materialized": MATERIALIZED,
	"next":         NEXT,
	"no":           NO,
	"nothing":      NOTHING,
	"nowait":       NOWAIT,
	"nulls":        NULLS,
	"ordinality":   ORDINALITY,
	"others":       OTHERS,
	"over":         OVER,
	"partial":      PARTIAL,
	"partition":    PARTITION,
	"preceding":    PRECEDING,
	"range":        RANGE,
	"read":         READ,
	"recursive":    RECURSIVE,
	"release":      RELEASE,
	"rename":       RENAME,
	"repeatable":   REPEATABLE,
	"replace":      REPLACE,
	"restrict":     RESTRICT,
	"rollback":     ROLLBACK,
	"rollup":       ROLLUP,
	"rows":         ROWS,
	"savepoint":    SAVEPOINT,
	"serializable": SERIALIZABLE,
	"session":      SESSION,
	"set":          SET,
	"sets":         SETS,
	"share":        SHARE,
	"show":         SHOW,
	"skip":         SKIP,
	"start":        START,
	"temp":         TEMP,
	"temporary":    TEMPORARY,
	"ties":         TIES,
	"transaction":  TRANSACTION,
	"truncate":     TRUNCATE,
	"unbounded":    UNBOUNDED,
	"uncommitted":  UNCOMMITTED,
	"unknown":      UNKNOWN,
	"unlogged":     UNLOGGED,
	"update":       UPDATE,
	"varying":      VARYING,
	"view":         VIEW,
	"within":       WITHIN,
	"without":      WITHOUT,
	"work":         WORK,
	"write":        WRITE,
	"zone":         ZONE,

	"between":   BETWEEN,
	"bigint":    BIGINT,
	"bit":       BIT,
	"boolean":   BOOLEAN,
	"char":      CHAR,
	"character": CHARACTER,
	"coalesce":  COALESCE,
	"dec":       DEC,
	"decimal":   DECIMAL,
	"exists":    EXISTS,
	"extract":   EXTRACT,
	"float":     FLOAT,
	"greatest":  GREATEST,
	"grouping":  GROUPING,
	"inout":     INOUT,
	"int":       INT,
	"integer":   INTEGER,
	"interval":  INTERVAL,
	"least":     LEAST,
	"none":      NONE,
	"nullif":    NULLIF,
	"numeric":   NUMERIC,
	"out":       OUT,
	"position":  POSITION,
	"precision": PRECISION,
	"real":      REAL,
	"row":       ROW,
	"setof":     SETOF,
	"smallint":  SMALLINT,
	"substring": SUBSTRING,
	"time":      TIME,
	"timestamp": TIMESTAMP,
	"trim":      TRIM,
	"values":    VALUES,
	"varchar":   VARCHAR,

	"authorization":  AUTHORIZATION,
	"binary":         BINARY,
	"collation":      COLLATION,
	"concurrently":   CONCURRENTLY,
	"cross":          CROSS,
	"current_schema": CURRENT_SCHEMA,
	"freeze":         FREEZE,
	"full":           FULL,
	"ilike":          ILIKE,
	"inner":          INNER,
	"is":             IS,
	"isnull":         ISNULL,
	"join":           JOIN,
	"left":           LEFT,
	"like":           LIKE,
	"natural":        NATURAL,
	"notnull":        NOTNULL,
	"outer":          OUTER,
	"overlaps":       OVERLAPS,
	"right":          RIGHT,
	"similar":        SIMILAR,
	"tablesample":    TABLESAMPLE,
	"verbose":        VERBOSE,

	"all":               ALL,
	"analyse":           ANALYSE,
	"analyze":           ANALYZE,
	"and":               AND,
	"any":               ANY,
	"array":             ARRAY,
	"as":                AS,
	"asc":               ASC,
	"asymmetric":        ASYMMETRIC,
	"both":              BOTH,
	"case":              CASE,
	"cast":              CAST,
	"check":             CHECK,
	"collate":           COLLATE,
	"column":            COLUMN,
	"constraint":        CONSTRAINT,
	"create":            CREATE,
	"current_catalog":   CURRENT_CATALOG,
	"current_date":      CURRENT_DATE,
	"current_role":      CURRENT_ROLE,
	"current_time":      CURRENT_TIME,
	"current_timestamp": CURRENT_TIMESTAMP,
	"current_user":      CURRENT_USER,
	"default":           DEFAULT,
	"deferrable":        DEFERRABLE,
	"desc":              DESC,
	"distinct":          DISTINCT,
	"do":                DO,
	"else":              ELSE,
	"end":               END,
	"except":            EXCEPT,
	"false":             FALSE,
	"fetch":             FETCH,
	"for":               FOR,
	"foreign":           FOREIGN,
	"from":              FROM,
	"grant":             GRANT,
	"group":             GROUP,
	"having":            HAVING,
	"in":                IN,
	"initially":         INITIALLY,
	"intersect":         INTERSECT,
	"into":              INTO,
	"lateral":           LATERAL,
	"leading":           LEADING,
	"limit":             LIMIT,
	"localtime":         LOCALTIME,
	"localtimestamp":    LOCALTIMESTAMP,
	"not":               NOT,
	"null":              NULL,
	"of":                OF,
	"offset":            OFFSET,
	"on":                ON,
	"only":              ONLY,
	"or":                OR,
	"order":             ORDER,
	"placing":           PLACING,
	"primary":           PRIMARY,
	"references":        REFERENCES,
	"returning":         RETURNING,
	"select":            SELECT,
	"session_user":      SESSION_USER,
	"some":              SOME,
	"symmetric":         SYMMETRIC,
	"table":             TABLE,
	"then":              THEN,
	"to":                TO,
	"trailing":          TRAILING,
	"true":              TRUE,
	"union":             UNION,
	"unique":            UNIQUE,
	"user":              USER,
	"using":             USING,
	"variadic":          VARIADIC,
	"when":              WHEN,
	"where":             WHERE,
	"window":            WINDOW,
	"with":              WITH,
}
