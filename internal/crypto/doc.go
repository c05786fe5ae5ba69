// Package crypto selects and drives the external encryption tools.
//
// Two backends are built in, age and rage. They share one command line:
//
//	<tool> -r <recipient> -o <output>      plaintext on stdin
//	<tool> -d -i <identity> <input>        plaintext on stdout
//
// An entry's backend is a property of its file: the extension of an
// existing entry always selects the tool that decrypts it. Only new entries
// need a choice, which Registry.Choose makes from the recorded preference
// or by probing $PATH.
package crypto
