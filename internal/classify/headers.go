package classify

// StandardHeaders is the C (C17) and C++ (C++20) standard library header set
var StandardHeaders = []string{
	// C
	"assert.h", "complex.h", "ctype.h", "errno.h", "fenv.h", "float.h",
	"inttypes.h", "iso646.h", "limits.h", "locale.h", "math.h", "setjmp.h",
	"signal.h", "stdalign.h", "stdarg.h", "stdatomic.h", "stdbool.h",
	"stddef.h", "stdint.h", "stdio.h", "stdlib.h", "stdnoreturn.h",
	"string.h", "tgmath.h", "threads.h", "time.h", "uchar.h", "wchar.h",
	"wctype.h",

	// C++
	"algorithm", "any", "array", "atomic", "barrier", "bit", "bitset",
	"cassert", "cctype", "cerrno", "cfloat", "charconv", "chrono",
	"cinttypes", "climits", "clocale", "cmath", "codecvt", "compare",
	"complex", "concepts", "condition_variable", "coroutine", "csetjmp",
	"csignal", "cstdarg", "cstddef", "cstdint", "cstdio", "cstdlib",
	"cstring", "ctime", "cuchar", "cwchar", "cwctype", "deque", "exception",
	"execution", "filesystem", "format", "forward_list", "fstream",
	"functional", "future", "initializer_list", "iomanip", "ios", "iosfwd",
	"iostream", "istream", "iterator", "latch", "limits", "list", "locale",
	"map", "memory", "memory_resource", "mutex", "new", "numbers", "numeric",
	"optional", "ostream", "queue", "random", "ranges", "ratio", "regex",
	"scoped_allocator", "semaphore", "set", "shared_mutex", "source_location",
	"span", "sstream", "stack", "stdexcept", "stop_token", "streambuf",
	"string", "string_view", "syncstream", "system_error", "thread", "tuple",
	"type_traits", "typeindex", "typeinfo", "unordered_map", "unordered_set",
	"utility", "valarray", "variant", "vector", "version",
}
