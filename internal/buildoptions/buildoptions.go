package buildoptions

// CallStackCeiling is the maximum number of function calls that can be
// nested during a single invocation of the interpreter before a
// stack-overflow trap is raised.
const CallStackCeiling = 2000
