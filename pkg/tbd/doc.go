// Package tbd runs the thermal bridging and derating pipeline over a
// building model:
//
//	catalog -> topology -> analysis -> classification -> resolution
//	        -> apportionment -> derating -> write-back
//
// Diagnostics are collected per run. Recoverable problems never abort a run;
// they are recorded with a severity and the affected surface or edge is left
// out. The worst severity seen becomes the run's Status.
package tbd
