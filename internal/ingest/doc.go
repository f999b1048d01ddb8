// Package ingest принимает файлы, найденные watcher'ом в каталоге приёма.
//
// Для каждого файла заводится job в журнале обработки, файл переносится
// в каталог принятых, а в очередь pcap уходит PcapValidatedMessage.
package ingest
