// Package notebook loads the demo data files (JSON, INI and CSV) and prints
// them section by section. A failing section is reported and the rest still run.
package notebook
