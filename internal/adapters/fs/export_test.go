package fs

// ParseDepfile exposes the depfile parser used while hashing.
var ParseDepfile = parseDepfile
