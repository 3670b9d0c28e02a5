// Package lua runs user Lua scripts for the editor.
//
// Scripts run in a State with only the base, table, string and math
// libraries. Functions that load code or touch the file system (dofile,
// loadfile, load, require) are removed and print is redirected to a
// configurable writer. Every call is bounded by a context deadline.
//
// # Script Formatter
//
// A ScriptFormatter lets a project format buffers with Lua instead of an
// external binary:
//
//	function format(text, info)
//	  local out = {}
//	  for _, line in ipairs(slate.lines(text)) do
//	    out[#out + 1] = slate.rtrim(line)
//	  end
//	  return slate.join(out, "\n")
//	end
//
// The "slate" table offers lines, join and rtrim helpers. Returning nil and
// a message reports a formatting failure.
package lua
